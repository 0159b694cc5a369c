package fieldscan

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Config holds the plausibility policy knobs. The birth-year window and the
// generic email exclusion list are product decisions, not structural rules,
// so they are configuration rather than hard-coded literals.
type Config struct {
	BirthYearMin int
	BirthYearMax int

	// GenericEmailLocalParts lists role-account tokens (billing, support,
	// noreply...) rejected unless no other email candidate survives.
	GenericEmailLocalParts []string
}

func DefaultConfig() Config {
	return Config{
		BirthYearMin: 1900,
		BirthYearMax: 2010,
		GenericEmailLocalParts: []string{
			"billing", "support", "info", "sales", "admin", "noreply", "no-reply",
		},
	}
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// filter applies the field-kind-specific plausibility predicates.
// Candidates that fail are dropped silently; an empty result means the
// field is reported absent, never populated with a low-confidence guess.
func (c Config) filter(kind FieldKind, cands []Candidate) []Candidate {
	switch kind {
	case KindName:
		return keep(cands, looksLikePersonName)
	case KindEmail:
		return c.filterEmails(cands)
	case KindPhone:
		return keep(cands, func(v string) bool { return digitCount(v) >= 10 })
	case KindAddress:
		return keep(cands, func(v string) bool { return len(v) > 10 })
	case KindDateOfBirth:
		filtered := keepLabeled(cands)
		return keepCand(filtered, func(cd Candidate) bool { return c.plausibleBirthYear(cd.Value) })
	case KindCompany:
		return keep(cands, func(v string) bool { return len(v) > 2 })
	case KindJobTitle:
		// Only explicitly labeled titles are acceptable; there is no
		// heuristic guessing for this field.
		filtered := keepLabeled(cands)
		return keep(filtered, func(v string) bool { return len(v) > 2 && len(v) < 100 })
	case KindDate:
		return preferLabeled(cands)
	default:
		return cands
	}
}

func (c Config) filterEmails(cands []Candidate) []Candidate {
	personal := keep(cands, func(v string) bool { return !c.isGenericEmail(v) })
	if len(personal) > 0 {
		return personal
	}
	// Every address is a role account; better a generic email than none.
	return cands
}

func (c Config) isGenericEmail(addr string) bool {
	local := strings.ToLower(addr)
	if at := strings.Index(local, "@"); at >= 0 {
		local = local[:at]
	}
	for _, token := range c.GenericEmailLocalParts {
		if strings.Contains(local, token) {
			return true
		}
	}
	return false
}

// plausibleBirthYear rejects structurally valid dates whose year cannot be
// a human birth year. Two-digit years are rejected outright: they cannot be
// placed in the window unambiguously.
func (c Config) plausibleBirthYear(value string) bool {
	if m := yearPattern.FindString(value); m != "" {
		year, _ := strconv.Atoi(m)
		return year >= c.BirthYearMin && year <= c.BirthYearMax
	}
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) == 3 {
		if year, err := strconv.Atoi(parts[2]); err == nil {
			return year >= c.BirthYearMin && year <= c.BirthYearMax
		}
	}
	return false
}

func looksLikePersonName(v string) bool {
	words := strings.Fields(v)
	if len(words) < 2 {
		return false
	}
	for _, w := range words[:2] {
		if !isCapitalizedAlpha(w) {
			return false
		}
	}
	return true
}

func isCapitalizedAlpha(w string) bool {
	runes := []rune(w)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// preferLabeled keeps unlabeled candidates only when no labeled candidate
// exists, implementing the labeled-date preference for generic dates.
func preferLabeled(cands []Candidate) []Candidate {
	labeled := keepLabeled(cands)
	if len(labeled) > 0 {
		return labeled
	}
	return cands
}

func keepLabeled(cands []Candidate) []Candidate {
	return keepCand(cands, func(cd Candidate) bool { return cd.Labeled })
}

func keep(cands []Candidate, pred func(string) bool) []Candidate {
	return keepCand(cands, func(cd Candidate) bool { return pred(cd.Value) })
}

func keepCand(cands []Candidate, pred func(Candidate) bool) []Candidate {
	var out []Candidate
	for _, cd := range cands {
		if pred(cd) {
			out = append(out, cd)
		}
	}
	return out
}
