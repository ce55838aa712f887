package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TaraZSun/MQA/internal/search"
	"github.com/TaraZSun/MQA/pkg/types"
)

const defaultSearchLimit = 20

var searchCmd = &cobra.Command{
	Use:   "search <drug name>",
	Short: "Search the SPL index without downloading",
	Long: `Search queries the DailyMed SPL index for a drug name and prints the
matching documents in the order the service ranks them. Use it to preview
what a batch download would fetch, or to pick out individual setids.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", defaultSearchLimit, "maximum results to list")
	searchCmd.Flags().Int("page-size", defaultPageSize, "search page size (1-100)")
	searchCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	limit := intSetting(cmd, "limit", defaultSearchLimit)
	pageSize := intSetting(cmd, "page-size", defaultPageSize)
	timeout := durationSetting(cmd, "timeout", defaultTimeout)
	userAgent := stringSetting(cmd, "user-agent", defaultUserAgent)
	asJSON, _ := cmd.Flags().GetBool("json")

	client := &search.Client{
		HTTP: &http.Client{Timeout: timeout},
		Cfg: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: userAgent,
			},
			PageSize: pageSize,
		},
	}

	records, err := client.Resolve(context.Background(), name, limit)
	if err != nil {
		return err
	}

	if asJSON {
		return search.FormatJSON(records, os.Stdout)
	}
	search.FormatTable(records, os.Stdout)
	return nil
}
