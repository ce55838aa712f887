package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "dailymed/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for resolving drug names against the SPL index.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// PageSize is the number of records requested per index page
	// (default 100, the service maximum).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxRetries is the retry budget for transient HTTP failures
	// (0 = the httputil default).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// DownloadConfig holds settings for fetching and saving label documents.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// DownloadDelay is the delay between consecutive downloads (default 500ms).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// SaveDir is the directory label XML files are written to.
	SaveDir string `json:"save_dir" yaml:"save_dir"`

	// SkipExisting skips setids whose XML file is already on disk instead
	// of overwriting it.
	SkipExisting bool `json:"skip_existing" yaml:"skip_existing"`

	// MaxRetries is the retry budget for transient HTTP failures
	// (0 = the httputil default).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}
