package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"ragchat/internal/usecase"
)

var addCmd = &cobra.Command{
	Use:   "add <url-or-directory>...",
	Short: "Add content to the knowledge base",
	Long: `Add content to the knowledge base. Arguments that exist on disk are
walked for markdown/text files; everything else is treated as a URL to scrape.

Examples:
  ragchat add https://example.com/article
  ragchat add example.com/article           # https:// is assumed
  ragchat add ./docs ./notes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ingest := usecase.NewIngestUseCase(st, buildScraper(cfg), buildChunker(cfg), buildWalker(cfg), logger)

	for _, arg := range args {
		info, statErr := os.Stat(arg)
		if statErr == nil && info.IsDir() {
			if err := addDirectory(ingest, arg); err != nil {
				return err
			}
			continue
		}
		if err := addURL(ingest, arg); err != nil {
			return err
		}
	}

	stats := st.Stats()
	fmt.Printf("\nKnowledge base now holds %d vectors (dimension %d)\n", stats.TotalVectors, stats.Dimension)
	return nil
}

func addURL(ingest *usecase.IngestUseCase, arg string) error {
	url := arg
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	fmt.Printf("Fetching %s...\n", url)
	result, err := ingest.IngestURL(url)
	if err != nil {
		return fmt.Errorf("failed to ingest %s: %w", url, err)
	}

	title := result.Title
	if title == "" {
		title = url
	}
	fmt.Printf("Added %q: %d chunks (%d words)\n", title, result.ChunksAdded, result.WordCount)
	return nil
}

func addDirectory(ingest *usecase.IngestUseCase, dir string) error {
	fmt.Printf("Scanning %s...\n", dir)

	var bar *progressbar.ProgressBar
	progress := func(processed, total int, path string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(processed)
	}

	result, err := ingest.IngestDir(dir, progress)
	if err != nil {
		return fmt.Errorf("failed to ingest %s: %w", dir, err)
	}

	fmt.Printf("Added %d files: %d chunks\n", result.FilesRead, result.ChunksAdded)
	return nil
}
