package note

import (
	"sort"
	"strings"
)

// ParseTags splits comma-delimited tag arguments into a normalized tag set.
//
//	ParseTags([]string{"work, urgent", "work"}) == []string{"urgent", "work"}
func ParseTags(args []string) []string {
	var tags []string
	for _, arg := range args {
		tags = append(tags, strings.Split(arg, ",")...)
	}
	return NormalizeTags(tags)
}

// NormalizeTags trims, drops empties, de-duplicates and sorts tags.
// The result is nil when no tags remain.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// JoinTags renders a tag set for display.
func JoinTags(tags []string) string {
	return strings.Join(tags, " ")
}
