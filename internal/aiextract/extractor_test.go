package aiextract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/joelkehle/docintake/internal/fieldscan"
)

type fakeCaller struct {
	responses []string
	errs      []error
	prompts   []string
	i         int
}

func (f *fakeCaller) GenerateJSON(_ context.Context, prompt string) (string, error) {
	idx := f.i
	f.i++
	f.prompts = append(f.prompts, prompt)
	if idx < len(f.errs) && f.errs[idx] != nil {
		return "", f.errs[idx]
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	return "", nil
}

func newTestExtractor(caller Caller) *Extractor {
	e := NewExtractor(caller)
	e.sleep = func(time.Duration) {}
	return e
}

func TestExtractAllParsesFields(t *testing.T) {
	caller := &fakeCaller{responses: []string{
		"```json\n{\"name\":\"Robert Williams\",\"email\":\"r.w@example.com\",\"amount\":\"1,234.56\"}\n```",
	}}
	got, err := newTestExtractor(caller).ExtractAll(context.Background(), "doc text")
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}
	if got[fieldscan.KindName] != "Robert Williams" {
		t.Errorf("name = %q", got[fieldscan.KindName])
	}
	if got[fieldscan.KindEmail] != "r.w@example.com" {
		t.Errorf("email = %q", got[fieldscan.KindEmail])
	}
	if _, ok := got[fieldscan.KindPhone]; ok {
		t.Error("phone should be absent, not empty")
	}
}

func TestExtractAllRetriesOnBadJSONWithFeedback(t *testing.T) {
	caller := &fakeCaller{responses: []string{"not-json", `{"name":"Jane Doe"}`}}
	got, err := newTestExtractor(caller).ExtractAll(context.Background(), "doc")
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}
	if got[fieldscan.KindName] != "Jane Doe" {
		t.Fatalf("name = %q", got[fieldscan.KindName])
	}
	if len(caller.prompts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(caller.prompts))
	}
	if !strings.Contains(caller.prompts[1], "rejected") {
		t.Fatal("retry prompt lacks corrective feedback")
	}
}

func TestExtractAllRejectsUnknownKeys(t *testing.T) {
	caller := &fakeCaller{responses: []string{
		`{"nom":"Jane Doe"}`, `{"nom":"Jane Doe"}`, `{"nom":"Jane Doe"}`,
	}}
	_, err := newTestExtractor(caller).ExtractAll(context.Background(), "doc")
	if !errors.Is(err, ErrService) {
		t.Fatalf("err = %v, want ErrService", err)
	}
}

func TestExtractAllDropsNullAndBlankValues(t *testing.T) {
	caller := &fakeCaller{responses: []string{`{"name":"Jane Doe","phone":null,"company":"  "}`}}
	got, err := newTestExtractor(caller).ExtractAll(context.Background(), "doc")
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("fields = %v, want only name", got)
	}
}

func TestExtractAllTransportRetriesThenFail(t *testing.T) {
	caller := &fakeCaller{errs: []error{
		errors.New("status code: 500"),
		errors.New("status code: 500"),
		errors.New("status code: 500"),
	}}
	_, err := newTestExtractor(caller).ExtractAll(context.Background(), "doc")
	if !errors.Is(err, ErrService) {
		t.Fatalf("err = %v, want ErrService", err)
	}
	if caller.i != 3 {
		t.Fatalf("calls = %d, want 3", caller.i)
	}
}

func TestExtractAllClientErrorDoesNotRetry(t *testing.T) {
	caller := &fakeCaller{errs: []error{errors.New("status code: 400 bad request")}}
	_, err := newTestExtractor(caller).ExtractAll(context.Background(), "doc")
	if !errors.Is(err, ErrService) {
		t.Fatalf("err = %v, want ErrService", err)
	}
	if caller.i != 1 {
		t.Fatalf("calls = %d, want 1", caller.i)
	}
}

func TestExtractAllStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	caller := &fakeCaller{errs: []error{ctx.Err()}}
	_, err := newTestExtractor(caller).ExtractAll(ctx, "doc")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if caller.i != 1 {
		t.Fatalf("calls = %d, want 1", caller.i)
	}
}

func TestExtractAllTruncatesLongDocuments(t *testing.T) {
	caller := &fakeCaller{responses: []string{`{}`}}
	long := strings.Repeat("x", maxPromptChars+500)
	if _, err := newTestExtractor(caller).ExtractAll(context.Background(), long); err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}
	if strings.Count(caller.prompts[0], "x") > maxPromptChars {
		t.Fatal("document text not truncated in prompt")
	}
}

func TestNewAnthropicCallerFromEnvRequiresKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := NewAnthropicCallerFromEnv()
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("err = %v, want ErrNoCredential", err)
	}
}

func TestStripCodeFences(t *testing.T) {
	in := "```json\n{\"a\":1}\n```"
	if got := stripCodeFences(in); got != "{\"a\":1}" {
		t.Fatalf("unexpected: %q", got)
	}
}
