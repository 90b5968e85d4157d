// Package regiontag extracts text delimited by region tags such as
//
//	[DATACATALOG_START]
//	...
//	[DATACATALOG_END]
//
// Connectors use region tags to carry catalog metadata inside free-text
// fields of a source system, for example a table comment.
package regiontag

import (
	"regexp"
	"strings"

	"github.com/agentstation/catalogsync/pkg/logging"
)

const patternTemplate = `(?m)^(?s:.)*(?P<region_tag_start>\[{NAME}_START\][^\S\r\n]*)` +
	`(?P<tag_content>(?s:.)*)` +
	`(?P<region_tag_end>\s*\[{NAME}_END\]\s*)$`

// Pattern returns the expression matching the region named name.
func Pattern(name string) *regexp.Regexp {
	return regexp.MustCompile(strings.ReplaceAll(patternTemplate, "{NAME}", regexp.QuoteMeta(name)))
}

// ExtractContent returns the trimmed text between [name_START] and
// [name_END]. ok is false when s has no such region.
func ExtractContent(name, s string) (content string, ok bool) {
	re := Pattern(name)
	m := re.FindStringSubmatch(s)
	if m == nil {
		logging.Debug().Str("region_tag", name).Msg("No START/END region tags found")
		return "", false
	}

	logging.Debug().
		Str("start", m[re.SubexpIndex("region_tag_start")]).
		Str("end", m[re.SubexpIndex("region_tag_end")]).
		Msg("Region tags found")
	return strings.TrimSpace(m[re.SubexpIndex("tag_content")]), true
}
