// Package status holds the application (candidatura) status vocabulary and the
// presentation rules shared by the candidate and company views.
package status

import "strings"

// Status is a lifecycle stage of an application
type Status string

const (
	// Submitted is the initial status of every new application
	Submitted Status = "enviada"
	// UnderReview means the company is reviewing the application
	UnderReview Status = "em_analise"
	// Interview means the candidate was invited to an interview
	Interview Status = "entrevista"
	// Approved means the candidate was approved for the job
	Approved Status = "aprovado"
	// Rejected is terminal and sits outside the ordered progress sequence
	Rejected Status = "recusada"
)

// All is the full vocabulary in display order.
var All = []Status{Submitted, UnderReview, Interview, Approved, Rejected}

// aliases maps spellings found in older data to the canonical value.
var aliases = map[string]Status{
	"aprovada": Approved,
}

// Parse normalises raw input (case, surrounding space, known aliases) and
// reports whether it belongs to the vocabulary.
func Parse(raw string) (Status, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := aliases[s]; ok {
		return alias, true
	}
	candidate := Status(s)
	if candidate.Valid() {
		return candidate, true
	}
	return candidate, false
}

// Valid reports whether s is one of the canonical values.
func (s Status) Valid() bool {
	for _, v := range All {
		if v == s {
			return true
		}
	}
	return false
}

// Aliases returns the non-canonical spellings that resolve to s.
func Aliases(s Status) []string {
	var out []string
	for k, v := range aliases {
		if v == s {
			out = append(out, k)
		}
	}
	return out
}

func (s Status) String() string {
	return string(s)
}
