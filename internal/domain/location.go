package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// cityNameRe is the allowed character class for city names: letters, spaces,
// hyphens, apostrophes, and periods.
var cityNameRe = regexp.MustCompile(`^[a-zA-Z \-'.]+$`)

// cityStripRe matches everything outside the allowed city character class,
// used to build correction suggestions for invalid input.
var cityStripRe = regexp.MustCompile(`[^a-zA-Z \-']`)

// Location is a validated, canonicalized city/state pair. State is always a
// two-letter code from the 51-entry table; City has passed ValidateCityName
// and been through NormalizeCityName. Construct via NewLocation.
type Location struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// ValidationError reports user-correctable input problems. The message is
// surfaced verbatim to the caller.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// NewLocation validates and normalizes a raw city/state pair.
func NewLocation(city, state string) (Location, error) {
	normCity, err := NormalizeCityName(city)
	if err != nil {
		return Location{}, err
	}
	normState, err := NormalizeState(state)
	if err != nil {
		return Location{}, err
	}
	return Location{City: normCity, State: normState}, nil
}

// ValidateCityName reports whether the trimmed city name is 2-50 characters
// of letters, spaces, hyphens, apostrophes, and periods.
func ValidateCityName(city string) bool {
	city = strings.TrimSpace(city)
	if len(city) < 2 || len(city) > 50 {
		return false
	}
	return cityNameRe.MatchString(city)
}

// ValidateState reports whether the input is a known two-letter code or a
// known full state name, case-insensitively.
func ValidateState(state string) bool {
	state = strings.ToUpper(strings.TrimSpace(state))
	if state == "" {
		return false
	}
	if _, ok := stateNames[state]; ok {
		return true
	}
	for _, name := range stateNames {
		if strings.ToUpper(name) == state {
			return true
		}
	}
	return false
}

// NormalizeCityName canonicalizes capitalization: each word is title-cased,
// hyphenated words title-case every segment, and apostrophized words
// title-case only the segment before the first apostrophe. Interior runs of
// whitespace are preserved as-is; only the ends are trimmed.
func NormalizeCityName(city string) (string, error) {
	if !ValidateCityName(city) {
		return "", &ValidationError{Field: "city name", Value: city}
	}

	trimmed := strings.TrimSpace(city)
	// Split on single spaces rather than strings.Fields so that interior
	// whitespace survives normalization unchanged.
	words := strings.Split(trimmed, " ")
	for i, word := range words {
		words[i] = normalizeWord(word)
	}
	return strings.Join(words, " "), nil
}

func normalizeWord(word string) string {
	switch {
	case strings.Contains(word, "-"):
		parts := strings.Split(word, "-")
		for i, part := range parts {
			parts[i] = capitalize(part)
		}
		return strings.Join(parts, "-")
	case strings.Contains(word, "'"):
		// Only the leading segment is capitalized: "o'fallon" → "O'fallon".
		// Segments after every apostrophe, including single characters, are
		// lower-cased.
		parts := strings.Split(word, "'")
		parts[0] = capitalize(parts[0])
		for i := 1; i < len(parts); i++ {
			parts[i] = strings.ToLower(parts[i])
		}
		return strings.Join(parts, "'")
	default:
		return capitalize(word)
	}
}

// capitalize upper-cases the first byte and lower-cases the rest. City names
// are ASCII by validation, so byte indexing is safe here.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// NormalizeState canonicalizes a state to its two-letter code. Accepts either
// a code ("fl") or a full name ("Florida"), case-insensitively.
func NormalizeState(state string) (string, error) {
	if !ValidateState(state) {
		return "", &ValidationError{Field: "state", Value: state}
	}

	upper := strings.ToUpper(strings.TrimSpace(state))
	if _, ok := stateNames[upper]; ok {
		return upper, nil
	}
	for code, name := range stateNames {
		if strings.ToUpper(name) == upper {
			return code, nil
		}
	}
	return "", &ValidationError{Field: "state", Value: state}
}

// ParseLocation splits free-form input like "Tampa, FL" or "St. Louis,
// Missouri" into a normalized city and state code. With a single
// comma-separated part only the city is parsed and state comes back empty.
// Two parts succeed only when both sides normalize; there are no partial
// results. Any other part count fails.
func ParseLocation(location string) (city, state string, ok bool) {
	parts := strings.Split(location, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch len(parts) {
	case 2:
		normCity, err := NormalizeCityName(parts[0])
		if err != nil {
			return "", "", false
		}
		normState, err := NormalizeState(parts[1])
		if err != nil {
			return "", "", false
		}
		return normCity, normState, true
	case 1:
		normCity, err := NormalizeCityName(parts[0])
		if err != nil {
			return "", "", false
		}
		return normCity, "", true
	default:
		return "", "", false
	}
}

// Suggestions holds advisory corrections for invalid input. Never fatal.
type Suggestions struct {
	City  []string `json:"city"`
	State []string `json:"state"`
}

// SuggestCorrections proposes fixes for inputs that failed validation. For an
// invalid state it lists every table entry whose name contains, or whose name
// or code starts with, the upper-cased input, formatted "FullName (CODE)".
// For an invalid city it strips the disallowed characters and proposes the
// cleaned string when that changes anything.
func SuggestCorrections(city, state string) Suggestions {
	s := Suggestions{City: []string{}, State: []string{}}

	if state != "" && !ValidateState(state) {
		upper := strings.ToUpper(state)
		for _, code := range sortedStateCodes() {
			name := stateNames[code]
			nameUpper := strings.ToUpper(name)
			if strings.Contains(nameUpper, upper) ||
				strings.HasPrefix(nameUpper, upper) ||
				strings.HasPrefix(code, upper) {
				s.State = append(s.State, fmt.Sprintf("%s (%s)", name, code))
			}
		}
	}

	if city != "" && !ValidateCityName(city) {
		cleaned := cityStripRe.ReplaceAllString(city, "")
		if cleaned != "" && cleaned != city {
			s.City = append(s.City, cleaned)
		}
	}

	return s
}
