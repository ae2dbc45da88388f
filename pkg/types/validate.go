// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validate checks the blog settings needed to mint and register a DOI.
func (s BlogSettings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Prefix, validation.Required),
		validation.Field(&s.SuffixBase, validation.Required),
		validation.Field(&s.ProviderURL, validation.Required, is.URL),
		validation.Field(&s.Publisher, validation.Required),
		validation.Field(&s.URL, validation.Required, is.URL),
	)
}

// Validate checks the front-matter keys every post must carry.
func (p PostFrontMatter) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.Date, validation.Required),
		validation.Field(&p.Author, validation.Required),
	)
}

// Validate checks the author file.
func (a AuthorRecord) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required),
	)
}
