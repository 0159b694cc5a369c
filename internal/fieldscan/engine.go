package fieldscan

import "github.com/joelkehle/docintake/internal/textnorm"

// Engine runs the scan -> validate -> rank pipeline for every field kind.
// It holds only immutable configuration and is safe for concurrent use.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// ExtractAll extracts every field kind from the text. It is total: it
// always returns a freshly allocated map and never fails. Fields with no
// plausible candidate are simply absent from the map.
func (e *Engine) ExtractAll(text string) FieldMap {
	lines := textnorm.Lines(text)
	out := make(FieldMap, len(AllKinds))
	for _, kind := range AllKinds {
		cands := scanKind(kind, lines)
		cands = e.cfg.filter(kind, cands)
		if best, ok := rank(kind, cands); ok {
			out[kind] = best.Value
		}
	}
	return out
}

// Candidates exposes the raw scan output for one field kind, before
// validation. Review tooling uses it to show why a value was chosen.
func (e *Engine) Candidates(kind FieldKind, text string) []Candidate {
	return scanKind(kind, textnorm.Lines(text))
}
