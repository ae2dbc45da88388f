// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// BlogSettings holds the blog-wide values from the doi_jekyll key of the
// Jekyll configuration, plus the blog's top-level url.
type BlogSettings struct {
	// Prefix is the DataCite DOI prefix (e.g. "10.34732").
	Prefix string `json:"prefix" yaml:"prefix"`

	// SuffixBase starts every generated DOI suffix (e.g. "xdvblg").
	SuffixBase string `json:"suffix_base" yaml:"suffix_base"`

	// ProviderURL is the MDS endpoint, e.g. https://mds.datacite.org.
	ProviderURL string `json:"provider_url" yaml:"provider_url"`

	Publisher   string `json:"publisher" yaml:"publisher"`
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`

	// DOI identifies the blog as a whole; posts are related to it with
	// IsPartOf when set.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// URL is the blog's base URL, taken from the top level of _config.yml.
	URL string `json:"url" yaml:"-"`
}

// PostFrontMatter is the typed view of a post's front matter. The raw
// front matter is kept alongside it so unknown keys survive.
type PostFrontMatter struct {
	Title     string     `json:"title" yaml:"title"`
	Date      string     `json:"date" yaml:"date"`
	Author    string     `json:"author" yaml:"author"`
	Tags      StringList `json:"tags,omitempty" yaml:"tags,omitempty"`
	License   string     `json:"license,omitempty" yaml:"license,omitempty"`
	Abstract  string     `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Version   string     `json:"version,omitempty" yaml:"version,omitempty"`
	DOI       string     `json:"doi,omitempty" yaml:"doi,omitempty"`
	Permalink string     `json:"permalink,omitempty" yaml:"permalink,omitempty"`
}

// AuthorRecord is the typed view of an author file's front matter.
type AuthorRecord struct {
	Name        string `json:"name" yaml:"name"`
	FirstName   string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	OrcidID     string `json:"orcid_id,omitempty" yaml:"orcid_id,omitempty"`
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
}

// StringList accepts either a YAML sequence or a whitespace separated
// string, the two forms Jekyll allows for tags.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*l = strings.Fields(n.Value)
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: tags must be strings", item.Line)
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	}
	return fmt.Errorf("line %d: tags must be a string or a list", n.Line)
}
