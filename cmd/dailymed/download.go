package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TaraZSun/MQA/internal/acquire"
	"github.com/TaraZSun/MQA/internal/search"
	"github.com/TaraZSun/MQA/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 500 * time.Millisecond
	defaultSaveDir   = "dailymed_xmls"
	defaultPageSize  = 100
	defaultUserAgent = "dailymed/0.1"
)

func init() {
	rootCmd.Flags().StringSlice("drugs", nil, "drug names to fetch (default: built-in list)")
	rootCmd.Flags().Int("limit", acquire.DefaultLimit, "maximum documents per drug")
	rootCmd.Flags().String("save_dir", defaultSaveDir, "directory for downloaded XML files")
	rootCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	rootCmd.Flags().Duration("delay", defaultDelay, "delay between consecutive downloads")
	rootCmd.Flags().Int("page-size", defaultPageSize, "search page size (1-100)")
	rootCmd.Flags().Bool("skip-existing", false, "keep files already present instead of refreshing them")
	rootCmd.Flags().String("report", "", "write a YAML batch report to this path")
	rootCmd.Flags().String("user-agent", defaultUserAgent, "User-Agent header for requests")
	rootCmd.Flags().Int("retries", 0, "retry attempts for transient HTTP failures (default 3)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	timeout := durationSetting(cmd, "timeout", defaultTimeout)
	delay := durationSetting(cmd, "delay", defaultDelay)
	saveDir := stringSetting(cmd, "save_dir", defaultSaveDir)
	pageSize := intSetting(cmd, "page-size", defaultPageSize)
	limit := intSetting(cmd, "limit", acquire.DefaultLimit)
	userAgent := stringSetting(cmd, "user-agent", defaultUserAgent)
	retries := intSetting(cmd, "retries", 0)
	skipExisting := boolSetting(cmd, "skip-existing")
	reportPath := stringSetting(cmd, "report", "")

	drugs, _ := cmd.Flags().GetStringSlice("drugs")
	if len(drugs) == 0 {
		drugs = viper.GetStringSlice("drugs")
	}
	var queries []types.DrugQuery
	for _, name := range drugs {
		queries = append(queries, types.DrugQuery{Name: name, Limit: limit})
	}
	if len(queries) == 0 {
		queries = acquire.DefaultQueries(limit)
	}

	httpCfg := types.HTTPConfig{
		Timeout:   timeout,
		UserAgent: userAgent,
	}
	client := &http.Client{
		Timeout: timeout,
	}

	resolver := &search.Client{
		HTTP: client,
		Cfg: types.SearchConfig{
			HTTPConfig: httpCfg,
			PageSize:   pageSize,
			MaxRetries: retries,
		},
	}
	downloadCfg := types.DownloadConfig{
		HTTPConfig:    httpCfg,
		DownloadDelay: delay,
		SaveDir:       saveDir,
		SkipExisting:  skipExisting,
		MaxRetries:    retries,
	}
	fetcher := &acquire.Client{HTTP: client, Cfg: downloadCfg}

	report, err := acquire.Run(context.Background(), resolver, fetcher, queries, downloadCfg, os.Stdout)
	if err != nil {
		return err
	}
	if reportPath != "" {
		if err := acquire.WriteReportFile(report, reportPath); err != nil {
			return err
		}
	}
	// Per-item failures appear in the summary; only startup errors change
	// the exit code.
	return nil
}
