package publication

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	leadingYearRegex = regexp.MustCompile(`^\d{4}`)
	anyYearRegex     = regexp.MustCompile(`\d{4}`)
	nonDigitRegex    = regexp.MustCompile(`\D`)
)

// Year is a publication year that may carry qualifiers, e.g. "2025 Expected"
// or "Communicated 2024". It unmarshals from either a number or a string.
type Year string

// UnmarshalJSON accepts a JSON string or number.
func (y *Year) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*y = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*y = Year(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*y = Year(n.String())
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into Year", string(data))
}

// UnmarshalYAML accepts any YAML scalar.
func (y *Year) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: year must be a scalar", value.Line)
	}
	*y = Year(value.Value)
	return nil
}

func (y Year) String() string {
	return string(y)
}

// Leading returns the leading 4-digit year, or the raw value when the year
// does not start with one.
func (y Year) Leading() string {
	s := strings.TrimSpace(string(y))
	if m := leadingYearRegex.FindString(s); m != "" {
		return m
	}
	return s
}

// Sortable returns the leading year as an integer, 0 when there is none.
func (y Year) Sortable() int {
	m := leadingYearRegex.FindString(strings.TrimSpace(string(y)))
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}

// Digits returns a purely numeric year for machine-readable exports: the
// leading year, else the first 4-digit run, else the digits of the first word.
func (y Year) Digits() string {
	s := strings.TrimSpace(string(y))
	if m := leadingYearRegex.FindString(s); m != "" {
		return m
	}
	if m := anyYearRegex.FindString(s); m != "" {
		return m
	}
	first, _, _ := strings.Cut(s, " ")
	return nonDigitRegex.ReplaceAllString(first, "")
}
