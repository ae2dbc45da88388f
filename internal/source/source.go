// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doi-jekyll/internal/errs"
	"github.com/pdiddy/doi-jekyll/internal/record"
	"github.com/pdiddy/doi-jekyll/pkg/types"
)

const (
	// blogSection is the _config.yml key holding the tool's settings.
	blogSection = "doi_jekyll"

	// blogAdditionalKey holds a site-wide metadata override inside blogSection.
	blogAdditionalKey = "additional_metadata"

	// AdditionalKey holds a metadata override in post and author front matter.
	AdditionalKey = "doi-additional-metadata"
)

// Blog is the blog-wide metadata source.
type Blog struct {
	Settings types.BlogSettings

	// Record is the raw doi_jekyll section plus url.
	Record *record.Record

	// Additional is the site-wide override, or nil.
	Additional *record.Record
}

// Post is a blog post and its front matter.
type Post struct {
	*Document
	Meta       types.PostFrontMatter
	Additional *record.Record
}

// Author is an author file and its front matter.
type Author struct {
	*Document
	Meta       types.AuthorRecord
	Additional *record.Record
}

// LoadBlog reads the Jekyll configuration at path. Only the doi_jekyll
// section and the top-level url are used.
func LoadBlog(path string) (*Blog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading blog config: %w", err)
	}

	var raw struct {
		URL     string    `yaml:"url"`
		Section yaml.Node `yaml:"doi_jekyll"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errs.Configuration(err, "parsing "+path)
	}
	if raw.Section.Kind == 0 {
		return nil, errs.Configurationf("%s: missing %s section", path, blogSection)
	}

	b := &Blog{}
	if err := raw.Section.Decode(&b.Settings); err != nil {
		return nil, errs.Configuration(err, path+": "+blogSection)
	}
	b.Settings.URL = raw.URL
	if err := b.Settings.Validate(); err != nil {
		return nil, errs.Configuration(err, path+": "+blogSection)
	}

	section, err := record.FromNode(&raw.Section)
	if err != nil {
		return nil, errs.Configuration(err, path+": "+blogSection)
	}
	b.Additional, err = additional(section, blogAdditionalKey, path)
	if err != nil {
		return nil, err
	}
	section.Delete(blogAdditionalKey)
	b.Record = section.Set("url", raw.URL)
	return b, nil
}

// LoadPost reads and validates the post at path.
func LoadPost(path string) (*Post, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	p := &Post{Document: doc}
	if err := doc.Decode(&p.Meta); err != nil {
		return nil, errs.Configuration(err, "post")
	}
	if err := p.Meta.Validate(); err != nil {
		return nil, errs.Configuration(err, path)
	}
	p.Additional, err = additional(doc.Front, AdditionalKey, path)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AuthorPath returns the author file for handle inside dir, e.g.
// _authors/ada.md for "Ada".
func AuthorPath(dir, handle string) string {
	return filepath.Join(dir, strings.ToLower(strings.TrimSpace(handle))+".md")
}

// LoadAuthor reads the author file at path.
func LoadAuthor(path string) (*Author, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	a := &Author{Document: doc}
	if err := doc.Decode(&a.Meta); err != nil {
		return nil, errs.Configuration(err, "author")
	}
	if err := a.Meta.Validate(); err != nil {
		return nil, errs.Configuration(err, path)
	}
	a.Additional, err = additional(doc.Front, AdditionalKey, path)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// SetDOI records doi in the post front matter as a resolver URL and saves
// the post.
func (p *Post) SetDOI(doi string) error {
	url := "https://doi.org/" + doi
	p.SetFrontValue("doi", url)
	p.Meta.DOI = url
	if err := p.Save(); err != nil {
		return fmt.Errorf("updating post: %w", err)
	}
	return nil
}

// additional returns the mapping under key, nil when the key is absent,
// or a Configuration Error when the key holds something else.
func additional(r *record.Record, key, path string) (*record.Record, error) {
	v, ok := r.Get(key)
	if !ok || v == nil {
		return nil, nil
	}
	nested, isRecord := v.(*record.Record)
	if !isRecord {
		return nil, errs.Configurationf("%s: %s must be a mapping", path, key)
	}
	return nested, nil
}
