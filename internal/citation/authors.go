package citation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// authorSepRegex matches ", and ", ", & ", "; ", ", " and a bare " and "/" & ".
	// Alternation order matters: the conjunction forms must win over the plain comma.
	authorSepRegex = regexp.MustCompile(`,\s*(?:and\s+|&\s*)|;\s*|,\s+|\s+(?:and|&)\s+`)

	// roleLabelRegex matches a leading "Editors:" / "Eds." label.
	roleLabelRegex = regexp.MustCompile(`(?i)^\s*(?:editors?\s*:|eds?\.\s*:?)\s*`)

	// initialsRegex matches fragments made only of initials: dotted letters
	// ("J.", "G. S.", "J.-P.") or an undotted run of at most two ("J", "GS").
	initialsRegex = regexp.MustCompile(`^(?:(?:\p{Lu}\.(?:-\p{Lu}\.?)?\s*)+|\p{Lu}{1,2})$`)
)

// honorifics are dropped from the front of a name before splitting it.
var honorifics = map[string]bool{
	"dr": true, "dr.": true,
	"prof": true, "prof.": true, "professor": true,
	"mr": true, "mr.": true,
	"mrs": true, "mrs.": true,
	"ms": true, "ms.": true,
}

// SplitAuthors splits a free-text author string into individual names.
//
// Separators are ", and ", ", & ", "; ", ", " and a bare " and "/" & ". A
// fragment made only of initials is re-attached to the bare surname before
// it, so "Singh, J., & Singh, M." yields ["Singh, J.", "Singh, M."]. One
// separator family per string is assumed; mixed separators may mis-split.
func SplitAuthors(authors string) []string {
	authors = roleLabelRegex.ReplaceAllString(authors, "")

	var names []string
	var inverted []bool
	for _, part := range authorSepRegex.Split(authors, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n := len(names); n > 0 && isInitials(part) && !inverted[n-1] && !isInitials(names[n-1]) {
			names[n-1] = names[n-1] + ", " + part
			inverted[n-1] = true
			continue
		}
		names = append(names, part)
		inverted = append(inverted, false)
	}
	return names
}

// IsEditorList reports whether the author string is labelled as a list of editors.
func IsEditorList(authors string) bool {
	return roleLabelRegex.MatchString(authors)
}

func isInitials(s string) bool {
	return initialsRegex.MatchString(s)
}

// nameParts splits a single name into given-name tokens and a last name.
// "Last, Given" is treated as inverted; otherwise the last token is the surname.
func nameParts(name string) (given []string, last string) {
	name = strings.TrimSpace(name)
	if before, after, ok := strings.Cut(name, ","); ok {
		return stripHonorifics(strings.Fields(after)), strings.TrimSpace(before)
	}

	fields := stripHonorifics(strings.Fields(name))
	if len(fields) == 0 {
		return nil, name
	}
	return fields[:len(fields)-1], fields[len(fields)-1]
}

func stripHonorifics(fields []string) []string {
	for len(fields) > 1 && honorifics[strings.ToLower(fields[0])] {
		fields = fields[1:]
	}
	return fields
}

// LastName returns the family name: the final whitespace-delimited token, or
// the part before the comma of an inverted "Last, Given" name. A name without
// whitespace is returned unchanged.
func LastName(name string) string {
	_, last := nameParts(name)
	return last
}

// GivenNames returns everything but the family name, space separated.
func GivenNames(name string) string {
	given, _ := nameParts(name)
	return strings.Join(given, " ")
}

// Initials returns the uppercased first letter of every given-name token
// followed by ".", concatenated: "Gurdip Singh Batra" -> "G.S.". Returns ""
// when the name has at most one token.
func Initials(name string) string {
	given, _ := nameParts(name)
	var b strings.Builder
	for _, token := range given {
		r, _ := utf8.DecodeRuneInString(token)
		if r == utf8.RuneError {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		b.WriteByte('.')
	}
	return b.String()
}

// InvertedName renders a name as "Last, Given".
func InvertedName(name string) string {
	given, last := nameParts(name)
	if len(given) == 0 {
		return last
	}
	return last + ", " + strings.Join(given, " ")
}

// NaturalName renders a name as "Given Last".
func NaturalName(name string) string {
	given, last := nameParts(name)
	if len(given) == 0 {
		return last
	}
	return strings.Join(given, " ") + " " + last
}

// abbreviatedName renders "Last, I." as used by APA and Harvard.
func abbreviatedName(name string) string {
	last, initials := LastName(name), Initials(name)
	if initials == "" {
		return last
	}
	return last + ", " + initials
}

func mapNames(names []string, f func(string) string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = f(n)
	}
	return out
}
