// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds settings for requests to the registration service.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "doi-jekyll/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds the backoff on HTTP 429 responses (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// Credentials authenticate against the DataCite MDS API.
type Credentials struct {
	User     string `json:"user" yaml:"user"`
	Password string `json:"-" yaml:"-"`
}

// Complete reports whether both user and password are set.
func (c Credentials) Complete() bool {
	return c.User != "" && c.Password != ""
}

// RegistrationConfig holds the settings of one register run.
type RegistrationConfig struct {
	HTTPConfig `yaml:",inline"`

	// JekyllConfig is the path of the blog's _config.yml.
	JekyllConfig string `json:"jekyll_config" yaml:"jekyll_config"`

	// AuthorsDir holds one Markdown file per author, named after the
	// lowercased author handle used in posts.
	AuthorsDir string `json:"authors_dir" yaml:"authors_dir"`

	// AuthorFile bypasses the AuthorsDir lookup when set.
	AuthorFile string `json:"author_file,omitempty" yaml:"author_file,omitempty"`

	// AdditionalMetadata is an optional YAML or JSON file merged into the
	// assembled resource just below the post's own override.
	AdditionalMetadata string `json:"additional_metadata,omitempty" yaml:"additional_metadata,omitempty"`

	// Force allows re-registering a post that already carries a DOI.
	Force bool `json:"force" yaml:"force"`

	// SkipURL registers metadata only.
	SkipURL bool `json:"skip_url" yaml:"skip_url"`

	// DryRun assembles and logs the metadata without contacting DataCite
	// or touching the post.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// LedgerPath is the SQLite file recording successful registrations.
	// Empty disables the ledger.
	LedgerPath string `json:"ledger_path" yaml:"ledger_path"`

	Credentials Credentials `json:"credentials" yaml:"credentials"`
}
