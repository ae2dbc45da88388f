// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/pdiddy/doi-jekyll/internal/errs"
	"github.com/pdiddy/doi-jekyll/internal/logging"
	"github.com/pdiddy/doi-jekyll/internal/metadata"
	"github.com/pdiddy/doi-jekyll/internal/record"
	"github.com/pdiddy/doi-jekyll/internal/source"
	"github.com/pdiddy/doi-jekyll/internal/xmlenc"
	"github.com/pdiddy/doi-jekyll/pkg/types"
)

// inputs are the loaded metadata sources for one post.
type inputs struct {
	blog       *source.Blog
	post       *source.Post
	author     *source.Author
	additional *record.Record
}

// document is the assembled registration for one post.
type document struct {
	doi     string
	url     string
	record  *record.Record
	compact []byte
	pretty  []byte
}

func loadInputs(cfg types.RegistrationConfig, postPath string, log logging.Logger) (*inputs, error) {
	blog, err := source.LoadBlog(cfg.JekyllConfig)
	if err != nil {
		return nil, err
	}
	post, err := source.LoadPost(postPath)
	if err != nil {
		return nil, err
	}

	authorPath := cfg.AuthorFile
	if authorPath == "" {
		authorPath = source.AuthorPath(cfg.AuthorsDir, post.Meta.Author)
	}
	log.Debug("loading author", "author", post.Meta.Author, "path", authorPath)
	author, err := source.LoadAuthor(authorPath)
	if err != nil {
		return nil, errs.Configuration(err, "author "+post.Meta.Author)
	}

	in := &inputs{blog: blog, post: post, author: author}
	if cfg.AdditionalMetadata != "" {
		in.additional, err = record.ReadFile(cfg.AdditionalMetadata)
		if err != nil {
			return nil, errs.Configuration(err, "additional metadata")
		}
	}
	return in, nil
}

// assembleDocument builds the registration document. The post URL is only
// needed when it will be registered; otherwise a post whose URL cannot be
// derived gets a warning and an empty url.
func assembleDocument(in *inputs, requireURL bool, log logging.Logger) (*document, error) {
	settings := in.blog.Settings
	meta := in.post.Meta

	doi := metadata.GenerateDOI(meta.Title, settings.SuffixBase, settings.Prefix)
	date, err := metadata.ParseDate(meta.Date)
	if err != nil {
		return nil, err
	}
	url, err := metadata.Permalink(settings.URL, in.post.Path, date, meta.Permalink)
	if err != nil {
		if requireURL {
			return nil, err
		}
		log.Warn("post URL unavailable", "post", in.post.Path, "error", err.Error())
		url = ""
	}

	rec, err := metadata.Assemble(metadata.Sources{
		Blog:       in.blog,
		Author:     in.author,
		Post:       in.post,
		DOI:        doi,
		Additional: in.additional,
	}, log)
	if err != nil {
		return nil, err
	}

	compact, err := xmlenc.Marshal(rec, false)
	if err != nil {
		return nil, errs.Configuration(err, "serializing metadata")
	}
	pretty, err := xmlenc.Marshal(rec, true)
	if err != nil {
		return nil, errs.Configuration(err, "serializing metadata")
	}
	return &document{doi: doi, url: url, record: rec, compact: compact, pretty: pretty}, nil
}
