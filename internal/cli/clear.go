package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all vectors and documents from the knowledge base",
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteAll(); err != nil {
		return fmt.Errorf("failed to clear knowledge base: %w", err)
	}

	fmt.Println("Knowledge base cleared.")
	return nil
}
