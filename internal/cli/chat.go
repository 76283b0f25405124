package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ragchat/internal/domain"
	"ragchat/internal/usecase"
)

var chatQuestion string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions grounded in the knowledge base",
	Long: `Ask questions answered from the knowledge base. With -q a single
question is answered; without it an interactive session starts.

Examples:
  ragchat chat -q "What is machine learning?"
  ragchat chat`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatQuestion, "question", "q", "", "ask a single question and exit")
}

func runChat(cmd *cobra.Command, args []string) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	model, err := buildLLM(cfg)
	if err != nil {
		return fmt.Errorf("failed to create chat model: %w", err)
	}

	chat := usecase.NewChatUseCase(st, model, cfg.Chat.TopK, logger)

	if chatQuestion != "" {
		answer, err := chat.Ask(chatQuestion)
		if err != nil {
			return err
		}
		printAnswer(answer)
		return nil
	}

	fmt.Println("Interactive session. Type 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		answer, err := chat.Ask(question)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printAnswer(answer)
	}
	return scanner.Err()
}

func printAnswer(answer *domain.ChatAnswer) {
	fmt.Printf("\n%s\n", answer.Response)

	if len(answer.Sources) > 0 {
		fmt.Println("\nSources:")
		for i, src := range answer.Sources {
			title := src.Title
			if title == "" {
				title = src.URL
			}
			fmt.Printf("  %d. %s (%.4f)\n", i+1, title, src.Score)
			if src.URL != "" {
				fmt.Printf("     %s\n", src.URL)
			}
		}
	}

	fmt.Printf("\n(%.3fs: retrieval %.3fs, generation %.3fs)\n\n",
		answer.TotalTime, answer.RetrievalTime, answer.GenerationTime)
}
