// Package matching provides the deterministic multi-factor engine that scores
// open CFPs against a speaker profile.
package matching

import "strings"

// TermsOverlap reports whether two topic terms match under the product's
// deliberately loose heuristic: case-insensitive substring containment in
// either direction ("Cloud" matches "Cloud Native" and vice versa).
// All topic and travel matching funnels through this one function so the
// heuristic can be tested and swapped in isolation.
func TermsOverlap(a, b string) bool {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

// anyContains reports whether any pool entry contains term, case-insensitive.
// Unlike TermsOverlap this is one-directional: the candidate side must
// contain the profile term.
func anyContains(pool []string, term string) bool {
	lt := strings.ToLower(strings.TrimSpace(term))
	if lt == "" {
		return false
	}
	for _, p := range pool {
		if strings.Contains(strings.ToLower(p), lt) {
			return true
		}
	}
	return false
}

// placeMatches reports whether a travel preference term matches the
// candidate's city or country.
func placeMatches(term, city, country string) bool {
	return TermsOverlap(term, city) || TermsOverlap(term, country)
}

// anyPlaceMatches reports whether any preference term matches the location.
func anyPlaceMatches(terms []string, city, country string) bool {
	for _, t := range terms {
		if placeMatches(t, city, country) {
			return true
		}
	}
	return false
}

// topicsMention reports whether any candidate topic contains one of the
// given keywords, case-insensitive.
func topicsMention(topics []string, keywords ...string) bool {
	for _, topic := range topics {
		lt := strings.ToLower(topic)
		for _, kw := range keywords {
			if strings.Contains(lt, kw) {
				return true
			}
		}
	}
	return false
}
