// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/pdiddy/case-crawler/pkg/types"
)

// flattenText recursively concatenates all text beneath n, trimming each
// text node and joining the non-empty pieces with single spaces. It
// depends only on ordered children with text nodes interleaved, not on
// any JATS-specific structure.
func flattenText(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	var parts []string
	var walk func(*xmlquery.Node)
	walk = func(cur *xmlquery.Node) {
		for child := cur.FirstChild; child != nil; child = child.NextSibling {
			switch child.Type {
			case xmlquery.TextNode, xmlquery.CharDataNode:
				if t := strings.TrimSpace(child.Data); t != "" {
					parts = append(parts, t)
				}
			case xmlquery.ElementNode:
				walk(child)
			}
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

// findText flattens the first node matching expr under n, or returns the
// empty string when there is no match.
func findText(n *xmlquery.Node, expr string) string {
	return flattenText(xmlquery.FindOne(n, expr))
}

// articleMetadata fills bibliographic fields from the JATS front matter.
// Each field defaults to the empty string when absent; a missing element
// never fails the extraction.
func articleMetadata(doc *xmlquery.Node, rec *types.CaseRecord) {
	rec.Title = findText(doc, "//article-title")
	rec.Year = findText(doc, "//pub-date//year")
	rec.Journal = findText(doc, "//journal-title")
	rec.DOI = findText(doc, "//article-id[@pub-id-type='doi']")

	for _, contrib := range xmlquery.Find(doc, "//contrib[@contrib-type='author']") {
		surname := findText(contrib, ".//surname")
		if surname == "" {
			continue
		}
		name := surname
		if given := findText(contrib, ".//given-names"); given != "" {
			name += " " + given
		}
		rec.Authors = append(rec.Authors, name)
		if len(rec.Authors) == maxAuthors {
			break
		}
	}
}
