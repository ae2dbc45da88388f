// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Registration records one successful register run.
type Registration struct {
	// ID is a random UUID assigned when the entry is written.
	ID string `json:"id" yaml:"id"`

	DOI      string `json:"doi" yaml:"doi"`
	PostPath string `json:"post_path" yaml:"post_path"`
	URL      string `json:"url" yaml:"url"`

	// MetadataRegistered and URLRegistered report which of the two MDS
	// calls were made; URLRegistered is false under --skip-url.
	MetadataRegistered bool `json:"metadata_registered" yaml:"metadata_registered"`
	URLRegistered      bool `json:"url_registered" yaml:"url_registered"`

	RegisteredAt time.Time `json:"registered_at" yaml:"registered_at"`
}
