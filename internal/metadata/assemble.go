// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata builds the DataCite metadata record for a blog post by
// layering site, author and post fragments and their overrides.
package metadata

import (
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/pdiddy/doi-jekyll/internal/errs"
	"github.com/pdiddy/doi-jekyll/internal/logging"
	"github.com/pdiddy/doi-jekyll/internal/record"
	"github.com/pdiddy/doi-jekyll/internal/source"
)

// RootKey is the single top-level key of an assembled record.
const RootKey = "resource"

const (
	defaultVersion = "1.0"
	orcidURL       = "https://orcid.org"
)

// elementOrder is the conventional DataCite element order. Keys outside
// it keep their merge order after the known ones.
var elementOrder = []string{
	"@xmlns:xsi",
	"@xmlns",
	"@xsi:schemaLocation",
	"identifier",
	"creators",
	"titles",
	"publisher",
	"publicationYear",
	"resourceType",
	"subjects",
	"language",
	"relatedIdentifiers",
	"formats",
	"version",
	"rightsList",
	"descriptions",
}

// Sources carries everything the assembler reads.
type Sources struct {
	Blog   *source.Blog
	Author *source.Author
	Post   *source.Post

	// DOI is the identifier to embed.
	DOI string

	// Additional is the command-line override, or nil.
	Additional *record.Record
}

// Assemble merges, lowest precedence first: the site fragment, the site
// additional_metadata, the author fragment, the author override, the post
// fragment, the command-line override and the post override. The result
// is {"resource": merged}.
func Assemble(src Sources, log logging.Logger) (*record.Record, error) {
	if log == nil {
		log = logging.NoOp()
	}

	post, err := postFragment(src, log)
	if err != nil {
		return nil, err
	}

	layers := []*record.Record{siteFragment(src.Blog)}
	if src.Blog != nil {
		layers = append(layers, src.Blog.Additional)
	}
	if src.Author != nil {
		layers = append(layers, authorFragment(src.Author, src.Blog), src.Author.Additional)
	}
	layers = append(layers, post, src.Additional)
	if src.Post != nil {
		layers = append(layers, src.Post.Additional)
	}

	resource := ordered(record.MergeAll(layers...))
	if err := Validate(resource); err != nil {
		return nil, err
	}
	log.Debug("metadata assembled", "doi", src.DOI, "keys", resource.Len())
	return record.New().Set(RootKey, resource), nil
}

// Validate checks that a merged resource still carries the elements
// DataCite requires.
func Validate(resource *record.Record) error {
	textRequired := validation.Map(
		validation.Key(record.TextKey, validation.Required),
	).AllowExtraKeys()

	err := validation.Validate(resource.Map(), validation.Map(
		validation.Key("identifier", validation.Required, textRequired),
		validation.Key("creators", validation.Required),
		validation.Key("titles", validation.Required),
		validation.Key("publisher", validation.Required),
		validation.Key("publicationYear", validation.Required),
		validation.Key("resourceType", validation.Required),
	).AllowExtraKeys())
	if err != nil {
		return errs.Configuration(err, "merged metadata")
	}
	return nil
}

// siteFragment holds schema attributes, the publisher and the relation to
// the blog's own DOI.
func siteFragment(blog *source.Blog) *record.Record {
	r := record.New().
		Set("@xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance").
		Set("@xmlns", "http://datacite.org/schema/kernel-4").
		Set("@xsi:schemaLocation", "http://datacite.org/schema/kernel-4 http://schema.datacite.org/meta/kernel-4/metadata.xsd")
	if blog == nil {
		return r
	}

	r.Set("publisher", blog.Settings.Publisher)
	if blog.Settings.DOI != "" {
		r.Set("relatedIdentifiers", record.New().Set("relatedIdentifier", record.New().
			Set("@relatedIdentifierType", "DOI").
			Set("@relationType", "IsPartOf").
			Set(record.TextKey, blog.Settings.DOI)))
	}
	return r
}

// authorFragment describes the post's single creator. The author's own
// affiliation wins over the blog's.
func authorFragment(author *source.Author, blog *source.Blog) *record.Record {
	meta := author.Meta
	creator := record.New().Set("creatorName", record.New().
		Set("@nameType", "Personal").
		Set(record.TextKey, meta.Name))
	if meta.FirstName != "" {
		creator.Set("givenName", meta.FirstName)
	}
	if meta.LastName != "" {
		creator.Set("familyName", meta.LastName)
	}
	if meta.OrcidID != "" {
		creator.Set("nameIdentifier", record.New().
			Set("@nameIdentifierScheme", "ORCID").
			Set("@schemeURI", orcidURL).
			Set(record.TextKey, orcidURL+"/"+meta.OrcidID))
	}

	affiliation := meta.Affiliation
	if affiliation == "" && blog != nil {
		affiliation = blog.Settings.Affiliation
	}
	if affiliation != "" {
		creator.Set("affiliation", affiliation)
	}
	return record.New().Set("creators", record.New().Set("creator", creator))
}

// postFragment holds everything derived from the post's own front matter
// along with the fixed resource type, language and format.
func postFragment(src Sources, log logging.Logger) (*record.Record, error) {
	r := record.New().Set("identifier", record.New().
		Set("@identifierType", "DOI").
		Set(record.TextKey, src.DOI))
	if src.Post == nil {
		return r, nil
	}
	meta := src.Post.Meta

	r.Set("titles", record.New().Set("title", record.New().
		Set("@xml:lang", "en").
		Set(record.TextKey, meta.Title)))

	date, err := ParseDate(meta.Date)
	if err != nil {
		return nil, err
	}
	r.Set("publicationYear", strconv.Itoa(date.Year()))

	if len(meta.Tags) > 0 {
		subjects := make([]any, len(meta.Tags))
		for i, tag := range meta.Tags {
			subjects[i] = tag
		}
		r.Set("subjects", record.New().Set("subject", subjects))
	}

	version := meta.Version
	if version == "" {
		version = defaultVersion
	}
	r.Set("resourceType", record.New().
		Set("@resourceTypeGeneral", "Text").
		Set(record.TextKey, "BlogPosting")).
		Set("language", "en").
		Set("formats", record.New().Set("format", "HTML")).
		Set("version", version)

	if meta.License == "" {
		log.Warn("post has no license; rightsList omitted", "post", src.Post.Path)
	} else {
		license, err := LookupLicense(meta.License)
		if err != nil {
			return nil, err
		}
		r.Set("rightsList", record.New().Set("rights", license.Rights()))
	}

	if meta.Abstract == "" {
		log.Warn("post has no abstract; descriptions omitted", "post", src.Post.Path)
	} else {
		r.Set("descriptions", record.New().Set("description", record.New().
			Set("@descriptionType", "Abstract").
			Set(record.TextKey, PlainText(meta.Abstract))))
	}
	return r, nil
}

// ordered returns r with its known DataCite keys first.
func ordered(r *record.Record) *record.Record {
	out := record.New()
	for _, key := range elementOrder {
		if v, ok := r.Get(key); ok {
			out.Set(key, v)
		}
	}
	for _, key := range r.Keys() {
		if !out.Has(key) {
			v, _ := r.Get(key)
			out.Set(key, v)
		}
	}
	return out
}
