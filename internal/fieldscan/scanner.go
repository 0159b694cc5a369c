package fieldscan

import (
	"regexp"
	"strings"
)

// Candidate is one detected occurrence of a field value, before
// validation and ranking.
type Candidate struct {
	Value        string
	Kind         FieldKind
	RulePriority int
	Labeled      bool
	Line         int
	Offset       int
}

var (
	inlineLabelPattern = regexp.MustCompile(`\s{2,}[A-Za-z][A-Za-z /]{0,30}:`)
	articlePrefix      = regexp.MustCompile(`^(?i:(?:the|a|an))\s+`)
	spaceRun           = regexp.MustCompile(`\s+`)
)

// scanKind applies the ordered rule table for one field kind against the
// normalized lines. Every match from every rule becomes a candidate; the
// validator and ranker decide later. Rules operate line by line, so a
// candidate value never crosses a line boundary.
func scanKind(kind FieldKind, lines []string) []Candidate {
	var out []Candidate
	for pri, r := range ruleTables[kind] {
		for ln, line := range lines {
			if line == "" {
				continue
			}
			if r.maxLine > 0 && ln >= r.maxLine {
				break
			}
			if r.skipLabelLines && (len(line) < 5 || strings.HasPrefix(line, "=") || labelLinePattern.MatchString(line)) {
				continue
			}
			for _, m := range r.re.FindAllStringSubmatchIndex(line, -1) {
				if len(m) < 4 || m[2] < 0 {
					continue
				}
				raw := line[m[2]:m[3]]
				raw = dropAbsorbedLabel(kind, raw, line, m[3])
				value := cleanValue(kind, raw)
				if value == "" {
					continue
				}
				out = append(out, Candidate{
					Value:        value,
					Kind:         kind,
					RulePriority: pri,
					Labeled:      r.labeled,
					Line:         ln,
					Offset:       m[2],
				})
			}
		}
	}
	return out
}

// cleanValue applies the termination rule: a value stops at a separator
// token (comma for names and titles, pipe everywhere, a run of spaces
// followed by another label) and never keeps trailing separators. This is
// the guard against label text being concatenated into a value.
func cleanValue(kind FieldKind, raw string) string {
	v := strings.TrimSpace(raw)
	v = cutAt(v, "|")
	switch kind {
	case KindName:
		v = cutAt(v, ",")
		v = cutInlineLabel(v)
		words := strings.Fields(v)
		if len(words) > 3 {
			words = words[:3]
		}
		v = strings.Join(words, " ")
	case KindJobTitle:
		v = cutAt(v, ",", ";")
		v = cutInlineLabel(v)
		v = articlePrefix.ReplaceAllString(v, "")
	case KindCompany:
		v = cutInlineLabel(v)
		v = spaceRun.ReplaceAllString(v, " ")
		v = truncate(v, 100)
	case KindAddress:
		v = cutInlineLabel(v)
		v = spaceRun.ReplaceAllString(v, " ")
		v = truncate(v, 200)
	case KindWebsite:
		if !strings.HasPrefix(v, "http") {
			v = "https://" + v
		}
	}
	v = strings.TrimRight(v, " \t,;|")
	return strings.TrimSpace(v)
}

// dropAbsorbedLabel trims the final token of a free-text capture when the
// match ends immediately before a colon: that token is the next field's
// label ("Name: John Smith Phone:"), not part of the value.
func dropAbsorbedLabel(kind FieldKind, raw, line string, end int) string {
	switch kind {
	case KindName, KindCompany, KindJobTitle, KindAddress:
	default:
		return raw
	}
	if end >= len(line) || line[end] != ':' {
		return raw
	}
	trimmed := strings.TrimRight(raw, " \t")
	if i := strings.LastIndexAny(trimmed, " \t"); i >= 0 {
		return trimmed[:i]
	}
	return ""
}

func cutAt(s string, seps ...string) string {
	for _, sep := range seps {
		if i := strings.Index(s, sep); i >= 0 {
			s = s[:i]
		}
	}
	return s
}

func cutInlineLabel(s string) string {
	if loc := inlineLabelPattern.FindStringIndex(s); loc != nil {
		return s[:loc[0]]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
