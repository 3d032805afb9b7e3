// Package identity maps the many textual forms of a player's name onto one
// canonical display name for the duration of a match.
package identity

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var annotationRe = regexp.MustCompile(`[\(\[].*?[\)\]]`)

// CleanName strips "(c)", "[wk]" style annotations, collapses whitespace and
// title-cases the result.
func CleanName(name string) string {
	name = annotationRe.ReplaceAllString(name, "")
	return TitleCase(strings.Join(strings.Fields(name), " "))
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest. Hyphenated words are cased per part.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if strings.Contains(w, "-") {
			parts := strings.Split(w, "-")
			for j, p := range parts {
				parts[j] = capitalize(p)
			}
			words[i] = strings.Join(parts, "-")
			continue
		}
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	r, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}

// Variations lists the forms a name is likely to take in dismissal text:
// the name itself, the surname, initial plus surname, first plus surname and,
// for names with dotted initials, the dot-free form.
func Variations(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	out := []string{name}
	seen := map[string]struct{}{name: {}}
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	parts := strings.Fields(name)
	if len(parts) < 2 {
		return out
	}
	first, last := parts[0], parts[len(parts)-1]
	r, _ := utf8.DecodeRuneInString(first)
	add(last)
	add(string(r) + " " + last)
	add(first + " " + last)

	if strings.Contains(name, ".") {
		stripped := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.ReplaceAll(p, ".", ""); p != "" {
				stripped = append(stripped, p)
			}
		}
		add(strings.Join(stripped, " "))
	}
	return out
}

func key(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
