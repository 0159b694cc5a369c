package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joelkehle/docintake/internal/aiextract"
	"github.com/joelkehle/docintake/internal/fieldscan"
)

type stubAI struct {
	fields fieldscan.FieldMap
	err    error
	waits  bool
}

func (s *stubAI) ExtractAll(ctx context.Context, _ string) (fieldscan.FieldMap, error) {
	if s.waits {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.fields.Clone(), nil
}

const testDoc = "Full Name: Robert James Williams\nEmail: r.williams@customer.com\nPhone: (555) 123-4567\n"

func newOrchestrator(ai Extractor) *Orchestrator {
	return NewOrchestrator(ai, fieldscan.NewEngine(fieldscan.DefaultConfig()), time.Second)
}

func TestExtractRegexMode(t *testing.T) {
	orch := newOrchestrator(&stubAI{err: errors.New("must not be called")})
	res := orch.Extract(context.Background(), testDoc, ModeRegex)
	if res.Mode != ModeRegex || res.FallbackReason != FallbackNone {
		t.Fatalf("mode = %q fallback = %q", res.Mode, res.FallbackReason)
	}
	if res.Fields[fieldscan.KindName] != "Robert James Williams" {
		t.Fatalf("name = %q", res.Fields[fieldscan.KindName])
	}
}

func TestExtractAIModeMergesRegexFill(t *testing.T) {
	ai := &stubAI{fields: fieldscan.FieldMap{
		fieldscan.KindName:    "Robert J. Williams",
		fieldscan.KindCompany: "Customer Corp",
	}}
	res := newOrchestrator(ai).Extract(context.Background(), testDoc, ModeAI)
	if res.Mode != ModeAI || res.FallbackReason != FallbackNone {
		t.Fatalf("mode = %q fallback = %q", res.Mode, res.FallbackReason)
	}
	// Model value wins over the regex value for the same field.
	if res.Fields[fieldscan.KindName] != "Robert J. Williams" {
		t.Errorf("name = %q, want model value", res.Fields[fieldscan.KindName])
	}
	// Fields the model omitted come from the regex engine.
	if res.Fields[fieldscan.KindEmail] != "r.williams@customer.com" {
		t.Errorf("email = %q, want regex fill", res.Fields[fieldscan.KindEmail])
	}
	if res.Fields[fieldscan.KindCompany] != "Customer Corp" {
		t.Errorf("company = %q", res.Fields[fieldscan.KindCompany])
	}
}

func TestExtractFallsBackOnServiceError(t *testing.T) {
	ai := &stubAI{err: aiextract.ErrService}
	res := newOrchestrator(ai).Extract(context.Background(), testDoc, ModeAI)
	if res.Mode != ModeRegex || res.FallbackReason != FallbackServiceError {
		t.Fatalf("mode = %q fallback = %q", res.Mode, res.FallbackReason)
	}
	if res.Fields[fieldscan.KindName] != "Robert James Williams" {
		t.Fatalf("name = %q, want regex result", res.Fields[fieldscan.KindName])
	}
}

func TestExtractFallsBackWithoutCredential(t *testing.T) {
	res := newOrchestrator(nil).Extract(context.Background(), testDoc, ModeAI)
	if res.Mode != ModeRegex || res.FallbackReason != FallbackNoCredential {
		t.Fatalf("mode = %q fallback = %q", res.Mode, res.FallbackReason)
	}
	if len(res.Fields) == 0 {
		t.Fatal("fallback produced no fields")
	}
}

func TestExtractAITimeoutFallsBack(t *testing.T) {
	orch := NewOrchestrator(&stubAI{waits: true}, fieldscan.NewEngine(fieldscan.DefaultConfig()), 10*time.Millisecond)
	res := orch.Extract(context.Background(), testDoc, ModeAI)
	if res.Mode != ModeRegex || res.FallbackReason != FallbackServiceError {
		t.Fatalf("mode = %q fallback = %q", res.Mode, res.FallbackReason)
	}
}

func TestExtractResultsAreIndependent(t *testing.T) {
	orch := newOrchestrator(nil)
	first := orch.Extract(context.Background(), testDoc, ModeRegex)
	first.Fields[fieldscan.KindName] = "mutated"
	second := orch.Extract(context.Background(), testDoc, ModeRegex)
	if second.Fields[fieldscan.KindName] != "Robert James Williams" {
		t.Fatal("results share state across calls")
	}
}
