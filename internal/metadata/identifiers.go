// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/doi-jekyll/internal/errs"
)

const doiTitleChars = 6

// postFilePattern matches Jekyll post names: YYYY-M-D-slug.
var postFilePattern = regexp.MustCompile(`^(\d{4}-\d{1,2}-\d{1,2}-)(.+)$`)

// GenerateDOI mints prefix/suffixBase-XXXXXX where XXXXXX is the first six
// characters of the standard base64 encoding of the title.
func GenerateDOI(title, suffixBase, prefix string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(title))
	if len(encoded) > doiTitleChars {
		encoded = encoded[:doiTitleChars]
	}
	return fmt.Sprintf("%s/%s-%s", prefix, suffixBase, encoded)
}

// Permalink returns the public URL of a post under Jekyll's default
// permalink style, blogURL/YYYY/MM/DD/slug.html. A non-empty override (the
// post's own permalink key) is joined to blogURL instead.
func Permalink(blogURL, postPath string, date time.Time, override string) (string, error) {
	base := strings.TrimRight(blogURL, "/")
	if override != "" {
		return base + "/" + strings.TrimLeft(override, "/"), nil
	}

	stem := strings.TrimSuffix(filepath.Base(postPath), filepath.Ext(postPath))
	m := postFilePattern.FindStringSubmatch(stem)
	if m == nil {
		return "", errs.Configurationf("cannot derive permalink from %s: expected YYYY-MM-DD-slug file name", filepath.Base(postPath))
	}
	return fmt.Sprintf("%s/%s/%s.html", base, date.Format("2006/01/02"), m[2]), nil
}

// dateLayouts are the date forms Jekyll accepts in front matter. Month and
// day may have one or two digits.
var dateLayouts = []string{
	"2006-1-2T15:04:05Z07:00",
	"2006-1-2T15:04:05-0700",
	"2006-1-2 15:04:05 -0700",
	"2006-1-2 15:04:05 -07:00",
	"2006-1-2 15:04 -0700",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2T15:04:05",
	"2006-1-2",
}

// ParseDate parses a front-matter date.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errs.Configurationf("unrecognized post date %q", value)
}
