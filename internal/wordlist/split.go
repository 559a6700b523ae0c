package wordlist

import "strings"

// Split cuts a line into word variants on any run of one-or-more
// separator characters and trims surrounding whitespace from each
// piece. A line without separators yields exactly one variant equal to
// the trimmed line.
//
// Empty pieces (adjacent to a leading or trailing separator) are kept
// deliberately: a malformed line must fail its lookup downstream, not
// vanish here.
func Split(line string, separators string) []string {
	if separators == "" {
		return []string{strings.TrimSpace(line)}
	}

	var variants []string
	var current strings.Builder
	inSeparator := false

	for _, r := range line {
		if strings.ContainsRune(separators, r) {
			if !inSeparator {
				variants = append(variants, strings.TrimSpace(current.String()))
				current.Reset()
				inSeparator = true
			}
			continue
		}
		inSeparator = false
		current.WriteRune(r)
	}

	variants = append(variants, strings.TrimSpace(current.String()))
	return variants
}
