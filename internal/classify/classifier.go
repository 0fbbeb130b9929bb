// Package classify routes a complaint to one of the nine municipal
// departments and assigns it an urgency tier.
//
// Classification is an explicit ordered rule list, first match wins. This is
// a deliberate simplification carried over from how the desk has always
// routed complaints, not a placeholder for a smarter classifier: the rule
// order is part of the observable behavior, and matching is plain substring
// matching on the lower-cased inputs (so "water" inside a longer word still
// matches; that fuzziness is intended).
package classify

import "strings"

// Departments and urgency tiers.
const (
	DefaultDepartment = "General Administration"

	UrgencyLow    = "Low"
	UrgencyMedium = "Medium"
	UrgencyHigh   = "High"
)

type rule struct {
	keyword string
	outcome string
}

// departmentRules is scanned in order against both the complaint type and
// the description; the first keyword found anywhere wins.
var departmentRules = []rule{
	{"electricity", "Electrical Department"},
	{"water", "Water Department"},
	{"road", "Public Works Department"},
	{"sanitation", "Sanitation Department"},
	{"tax", "Revenue Department"},
	{"property", "Municipal Corporation"},
	{"health", "Health Department"},
	{"education", "Education Department"},
	{"other", DefaultDepartment},
}

// urgencyRules is scanned in order against the description only.
var urgencyRules = []rule{
	{"emergency", UrgencyHigh},
	{"urgent", UrgencyHigh},
	{"critical", UrgencyHigh},
	{"important", UrgencyMedium},
	{"normal", UrgencyMedium},
	{"routine", UrgencyLow},
	{"minor", UrgencyLow},
}

// emergencyKeywords force urgency to High regardless of what the ordered
// rules decided.
var emergencyKeywords = []string{
	"emergency", "urgent", "immediate", "critical", "accident", "fire", "flood",
}

// Classify maps a free-text complaint type and description to a department
// and an urgency tier. Empty inputs fall through to the defaults
// (General Administration, Medium).
func Classify(complaintType, description string) (department, urgency string) {
	typeLower := strings.ToLower(complaintType)
	descLower := strings.ToLower(description)

	department = DefaultDepartment
	for _, r := range departmentRules {
		if strings.Contains(typeLower, r.keyword) || strings.Contains(descLower, r.keyword) {
			department = r.outcome
			break
		}
	}

	urgency = UrgencyMedium
	for _, r := range urgencyRules {
		if strings.Contains(descLower, r.keyword) {
			urgency = r.outcome
			break
		}
	}

	for _, kw := range emergencyKeywords {
		if strings.Contains(descLower, kw) {
			urgency = UrgencyHigh
			break
		}
	}

	return department, urgency
}
