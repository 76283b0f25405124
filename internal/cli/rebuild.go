package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ragchat/internal/adapter/store"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the vector index from the document log",
	Long: `Rebuild the vector index by re-embedding every record in the document
log. Use this to recover when the store refuses to start because the index
file is missing or out of step with the log. The log is authoritative; the
index file is overwritten.`,
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, args []string) error {
	// Built directly from options: a corrupt store cannot be opened.
	opts, err := storeOptions(cfg)
	if err != nil {
		return err
	}

	fmt.Println("Re-embedding document log...")
	n, err := store.RebuildIndex(opts)
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	fmt.Printf("Rebuilt index from %d records.\n", n)
	return nil
}
