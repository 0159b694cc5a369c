package fieldscan

import (
	"sort"
	"strings"
)

// rank resolves the validated candidate set for one field kind to a single
// value. Ordering is deterministic: most explicitly labeled rule first,
// then fuller names (token count, Name only), then earliest position in
// the document. Given the same candidate set the chosen value is always
// the same.
func rank(kind FieldKind, cands []Candidate) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	sorted := append([]Candidate(nil), cands...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return candidateLess(kind, sorted[i], sorted[j])
	})
	return sorted[0], true
}

func candidateLess(kind FieldKind, a, b Candidate) bool {
	if a.RulePriority != b.RulePriority {
		return a.RulePriority < b.RulePriority
	}
	if kind == KindName {
		at, bt := len(strings.Fields(a.Value)), len(strings.Fields(b.Value))
		if at != bt {
			// Prefer the fuller name: "Robert James Williams" over
			// a two-word fragment from the same rule.
			return at > bt
		}
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Offset < b.Offset
}
