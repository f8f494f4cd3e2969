// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/news-archive/internal/fetch"
	"github.com/pdiddy/news-archive/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [urls...]",
	Short: "Download edition PDFs from e-paper URLs",
	Long: `Fetch downloads newspaper edition PDFs into the raw directory, where
archive --batch picks them up. The file name comes from the URL or the
server's Content-Disposition header, so name editions the way the archive
expects (for example "TH Delhi 21-07.pdf"). Existing files are skipped.

Use --from to read URLs from a file, one per line.`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	urls := args
	if from != "" {
		listed, err := readURLList(from)
		if err != nil {
			return err
		}
		urls = append(urls, listed...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs given: pass URLs or use --from")
	}

	cfg := types.FetchConfig{
		RawDir:        viper.GetString("fetch.raw_dir"),
		UserAgent:     viper.GetString("fetch.user_agent"),
		Timeout:       viper.GetDuration("fetch.timeout"),
		DownloadDelay: viper.GetDuration("fetch.download_delay"),
		MaxRetries:    viper.GetInt("fetch.max_retries"),
	}

	f := fetch.New(nil, cfg, log)
	result := f.FetchBatch(cmd.Context(), urls, os.Stdout)
	if err := cmd.Context().Err(); err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d download(s) failed", result.Failed)
	}
	return nil
}

// readURLList reads one URL per line, ignoring blanks and # comments.
func readURLList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening URL list: %w", err)
	}
	defer file.Close()

	var urls []string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading URL list: %w", err)
	}
	return urls, nil
}

func init() {
	f := fetchCmd.Flags()
	f.String("raw-dir", "newspapers/raw", "directory receiving downloaded PDFs")
	f.String("user-agent", "news-archive/1.0", "User-Agent header for downloads")
	f.Duration("timeout", 0, "per-download timeout (0 = none)")
	f.Duration("delay", 0, "pause between consecutive downloads")
	f.Int("max-retries", 5, "retries on HTTP 429 or 503")
	f.String("from", "", "file with one URL per line")

	viper.BindPFlag("fetch.raw_dir", f.Lookup("raw-dir"))
	viper.BindPFlag("fetch.user_agent", f.Lookup("user-agent"))
	viper.BindPFlag("fetch.timeout", f.Lookup("timeout"))
	viper.BindPFlag("fetch.download_delay", f.Lookup("delay"))
	viper.BindPFlag("fetch.max_retries", f.Lookup("max-retries"))

	rootCmd.AddCommand(fetchCmd)
}
