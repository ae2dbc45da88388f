// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package xmlenc

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doi-jekyll/internal/record"
)

func TestMarshalCompact(t *testing.T) {
	doc := record.New().Set("resource", record.New().
		Set("@xmlns", "http://datacite.org/schema/kernel-4").
		Set("identifier", record.New().
			Set("@identifierType", "DOI").
			Set("#text", "10.1/x-abc")).
		Set("publicationYear", 2022).
		Set("subjects", record.New().Set("subject", []any{"gpu", "hpc"})).
		Set("empty", nil))

	out, err := Marshal(doc, false)
	require.NoError(t, err)

	want := Header +
		`<resource xmlns="http://datacite.org/schema/kernel-4">` +
		`<identifier identifierType="DOI">10.1/x-abc</identifier>` +
		`<publicationYear>2022</publicationYear>` +
		`<subjects><subject>gpu</subject><subject>hpc</subject></subjects>` +
		`<empty></empty>` +
		`</resource>`
	assert.Equal(t, want, string(out))
}

func TestMarshalAttributesAreVerbatim(t *testing.T) {
	doc := record.New().Set("title", record.New().
		Set("@xml:lang", "en").
		Set("@xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance").
		Set("#text", "Hello"))

	out, err := Marshal(doc, false)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<title xml:lang="en" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">Hello</title>`)
}

func TestAttributeKeysNeverBecomeElements(t *testing.T) {
	doc := record.New().Set("root", record.New().
		Set("@kind", "a").
		Set("child", record.New().Set("@kind", "b")))

	out, err := Marshal(doc, false)
	require.NoError(t, err)

	var parsed struct {
		XMLName xml.Name `xml:"root"`
		Kind    string   `xml:"kind,attr"`
		Child   struct {
			Kind string `xml:"kind,attr"`
		} `xml:"child"`
	}
	require.NoError(t, xml.Unmarshal(out, &parsed))
	assert.Equal(t, "a", parsed.Kind)
	assert.Equal(t, "b", parsed.Child.Kind)
	assert.NotContains(t, string(out), "<kind")
}

func TestMarshalEscapes(t *testing.T) {
	doc := record.New().Set("d", record.New().
		Set("@note", `a "quote" & <tag>`).
		Set("#text", "x < y & z"))

	out, err := Marshal(doc, false)
	require.NoError(t, err)
	assert.Contains(t, string(out), `note="a &#34;quote&#34; &amp; &lt;tag&gt;"`)
	assert.Contains(t, string(out), `x &lt; y &amp; z`)
}

func TestMarshalSequenceOfRecords(t *testing.T) {
	doc := record.New().Set("creators", record.New().Set("creator", []any{
		record.New().Set("creatorName", "A"),
		record.New().Set("creatorName", "B"),
	}))

	out, err := Marshal(doc, false)
	require.NoError(t, err)
	assert.Contains(t, string(out),
		`<creators><creator><creatorName>A</creatorName></creator><creator><creatorName>B</creatorName></creator></creators>`)
}

func TestMarshalPretty(t *testing.T) {
	doc := record.New().Set("resource", record.New().
		Set("titles", record.New().Set("title", "T")).
		Set("language", "en"))

	out, err := Marshal(doc, true)
	require.NoError(t, err)

	want := Header + strings.Join([]string{
		"<resource>",
		"\t<titles>",
		"\t\t<title>T</title>",
		"\t</titles>",
		"\t<language>en</language>",
		"</resource>",
	}, "\n")
	assert.Equal(t, want, string(out))
}

func TestMarshalRootErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  *record.Record
	}{
		{"empty", record.New()},
		{"two roots", record.New().Set("a", "1").Set("b", "2")},
		{"attribute root", record.New().Set("@a", "1")},
		{"text root", record.New().Set("#text", "1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal(tt.doc, false)
			assert.Error(t, err)
		})
	}
}
