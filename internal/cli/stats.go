package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	stats := st.Stats()
	fmt.Printf("Total vectors: %d\n", stats.TotalVectors)
	fmt.Printf("Dimension:     %d\n", stats.Dimension)
	fmt.Printf("Embedding:     %s (%s)\n", cfg.Embedding.Model, cfg.Embedding.Provider)
	fmt.Printf("Chat model:    %s\n", cfg.Chat.Model)
	return nil
}
