package dataset

import (
	"regexp"
	"strings"
)

var (
	andWord    = regexp.MustCompile(`\band\b`)
	whitespace = regexp.MustCompile(`\s+`)
)

// NormalizeTypes turns a raw type string such as "Fungicide and Herbicide"
// into its label set. The word "and" acts as a separator and remaining
// whitespace is removed, so "Plant growth regulator" is one label.
func NormalizeTypes(raw string) []string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = andWord.ReplaceAllString(s, ",")
	s = whitespace.ReplaceAllString(s, "")
	return splitLabels(s)
}

// NormalizeFamilies turns a raw family string into its label set.
// Whitespace runs separate families.
func NormalizeFamilies(raw string) []string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = whitespace.ReplaceAllString(s, ",")
	return splitLabels(s)
}

func splitLabels(s string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	if len(out) == 0 {
		return []string{Unknown}
	}
	return out
}
