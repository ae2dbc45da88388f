// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"strings"

	"github.com/pdiddy/doi-jekyll/internal/errs"
	"github.com/pdiddy/doi-jekyll/internal/record"
)

// License is an SPDX license with its canonical URL.
type License struct {
	SPDX string
	URL  string
}

// licenses maps the short names used in post front matter.
var licenses = map[string]License{
	"mit":    {SPDX: "MIT", URL: "https://spdx.org/licenses/MIT.html"},
	"cc0":    {SPDX: "CC0-1.0", URL: "https://creativecommons.org/publicdomain/zero/1.0/"},
	"cc-by4": {SPDX: "CC-BY-4.0", URL: "https://creativecommons.org/licenses/by/4.0/"},
	"gpl3":   {SPDX: "GPL-3.0-only", URL: "https://opensource.org/licenses/GPL-3.0"},
}

// LookupLicense resolves a short name case-insensitively. Unknown names
// are a Configuration Error.
func LookupLicense(short string) (License, error) {
	l, ok := licenses[strings.ToLower(strings.TrimSpace(short))]
	if !ok {
		return License{}, errs.Configurationf("license %q unknown; known: mit, cc0, cc-by4, gpl3", short)
	}
	return l, nil
}

// Rights renders l as a DataCite rights element.
func (l License) Rights() *record.Record {
	return record.New().
		Set("@schemeURI", "https://spdx.org/licenses/").
		Set("@rightsIdentifierScheme", "SPDX").
		Set("@rightsIdentifier", l.SPDX).
		Set("@rightsURI", l.URL)
}
