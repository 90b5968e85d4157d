// Package prepare holds the helpers connectors use to build catalog metadata
// from a source system: id and display name formatting, byte-bounded string
// truncation, tag and tag template builders, and an entry relationship mapper.
package prepare

import (
	"crypto/sha1" //nolint:gosec // id suffix, not a security boundary
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/agentstation/catalogsync/pkg/constants"
)

var (
	invalidIDChars          = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	invalidDisplayNameChars = regexp.MustCompile(`[^\w\- ]+`)
)

// FormatID turns a source identifier into a valid catalog id: ASCII folded,
// runs of characters outside [a-zA-Z0-9] replaced by "_", at most 64 chars.
func FormatID(sourceID string) string {
	id := normalize(invalidIDChars, sourceID)
	if len(id) > constants.MaxIDLength {
		return id[:constants.MaxIDLength]
	}
	return id
}

// FormatIDWithHashing is like FormatID, but ids longer than 64 chars keep
// their first 64-hashLength chars followed by the first hashLength hex digits
// of the SHA-1 of the whole formatted id, so distinct long ids stay distinct.
func FormatIDWithHashing(sourceID string, hashLength int) string {
	id := normalize(invalidIDChars, sourceID)
	if len(id) <= constants.MaxIDLength {
		return id
	}

	hashLength = min(max(hashLength, 0), constants.MaxIDLength, sha1.Size*2)
	sum := sha1.Sum([]byte(id)) //nolint:gosec
	return id[:constants.MaxIDLength-hashLength] + hex.EncodeToString(sum[:])[:hashLength]
}

// FormatDisplayName turns a source name into a valid display name: ASCII
// folded, runs of characters other than word characters, "-" and " "
// replaced by "_".
func FormatDisplayName(sourceName string) string {
	return normalize(invalidDisplayNameChars, sourceName)
}

// TruncateString bounds s to maxBytes UTF-8 bytes. When s is longer, it is
// cut at a rune boundary and "..." is appended within the budget. A
// non-positive maxBytes yields "".
func TruncateString(s string, maxBytes int) string {
	if maxBytes <= 0 {
		return ""
	}
	if len(s) <= maxBytes {
		return s
	}

	budget := maxBytes - len(constants.TruncationSuffix)
	if budget < 0 {
		budget = 0
	}
	for budget > 0 && !utf8.RuneStart(s[budget]) {
		budget--
	}
	out := s[:budget] + constants.TruncationSuffix
	if len(out) > maxBytes {
		return out[:maxBytes]
	}
	return out
}

func normalize(pattern *regexp.Regexp, s string) string {
	return pattern.ReplaceAllString(foldASCII(strings.TrimSpace(s)), "_")
}

// foldASCII decomposes s with NFKD and drops every non-ASCII rune.
func foldASCII(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	out, _, err := transform.String(t, s)
	if err != nil {
		return ""
	}
	return out
}
