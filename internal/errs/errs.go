// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package errs defines the two failure kinds the tool reports to the
// operator: configuration problems found before anything is sent, and
// submission failures returned by the registration service.
package errs

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeDOIExists     = "DOI_EXISTS"
	CodeSubmission    = "SUBMISSION_FAILED"
)

// Configuration wraps err as a Configuration Error with context as its
// message and err as its source. Errors that already carry a category are
// returned unchanged.
func Configuration(err error, context string) error {
	return wrap(err, goerrors.CategoryValidation, context, CodeConfiguration)
}

// Configurationf builds a Configuration Error from a format string.
func Configurationf(format string, args ...any) error {
	return goerrors.New(fmt.Sprintf(format, args...), goerrors.CategoryValidation).
		WithTextCode(CodeConfiguration)
}

// DOIExists reports a post that already carries a DOI.
func DOIExists(doi string) error {
	msg := fmt.Sprintf("DOI already exists for blog post (%s); use --force to overwrite", doi)
	return goerrors.New(msg, goerrors.CategoryValidation).WithTextCode(CodeDOIExists)
}

// Submission wraps err as a Submission Error with context as its message
// and err as its source.
func Submission(err error, context string) error {
	return wrap(err, goerrors.CategoryExternal, context, CodeSubmission)
}

// IsConfiguration reports whether err is a Configuration Error.
func IsConfiguration(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}

// IsSubmission reports whether err is a Submission Error.
func IsSubmission(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryExternal)
}

func wrap(err error, category goerrors.Category, msg, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, msg).WithTextCode(code)
}
