package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	queryText string
	queryTopK int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search the knowledge base and show raw results",
	Long: `Search the knowledge base and print the nearest chunks with their raw
distance scores (lower means more similar).

Example:
  ragchat query -q "how does vector search work" -k 3`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "query text (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 5, "maximum number of results")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	results := st.SearchSimilar(queryText, queryTopK)
	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%d. [%.4f] %s\n", i+1, r.Score, r.ID)
		if r.Title != "" {
			fmt.Printf("   Title: %s\n", r.Title)
		}
		if r.URL != "" {
			fmt.Printf("   URL:   %s\n", r.URL)
		}
		text := r.Text
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		fmt.Printf("   %s\n\n", text)
	}
	return nil
}
