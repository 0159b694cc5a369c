package extraction

import (
	"context"
	"errors"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/joelkehle/docintake/internal/aiextract"
	"github.com/joelkehle/docintake/internal/fieldscan"
)

// Mode selects the extraction strategy for a request.
type Mode string

const (
	ModeAI    Mode = "ai"
	ModeRegex Mode = "regex"
)

// FallbackReason records why an AI-mode request was served by the regex
// engine instead. Empty means no fallback happened.
type FallbackReason string

const (
	FallbackNone         FallbackReason = ""
	FallbackNoCredential FallbackReason = "no_credential"
	FallbackServiceError FallbackReason = "service_error"
)

// Extractor is the model-backed extraction strategy.
type Extractor interface {
	ExtractAll(ctx context.Context, text string) (fieldscan.FieldMap, error)
}

// Result is what a caller gets back for a document. Mode reports the
// strategy that actually produced the fields, which differs from the
// requested mode exactly when FallbackReason is set.
type Result struct {
	Fields         fieldscan.FieldMap `json:"fields"`
	Mode           Mode               `json:"mode"`
	FallbackReason FallbackReason     `json:"fallback_reason,omitempty"`
}

// Orchestrator routes documents between the model-backed extractor and the
// regex engine. Extract is total: the regex engine cannot fail, so every
// request produces a Result.
type Orchestrator struct {
	ai      Extractor
	engine  *fieldscan.Engine
	timeout time.Duration
	tracer  trace.Tracer
}

// NewOrchestrator wires the two strategies. ai may be nil when no model
// credential is configured; AI-mode requests then fall back immediately.
func NewOrchestrator(ai Extractor, engine *fieldscan.Engine, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Orchestrator{
		ai:      ai,
		engine:  engine,
		timeout: timeout,
		tracer:  otel.Tracer("docintake/extraction"),
	}
}

// Extract produces a fresh Result for the document. In AI mode the model
// answer is primary and the regex engine fills any field the model left
// absent; on model failure the regex result is returned whole with the
// fallback reason recorded.
func (o *Orchestrator) Extract(ctx context.Context, text string, mode Mode) Result {
	ctx, span := o.tracer.Start(ctx, "extraction.extract",
		trace.WithAttributes(attribute.String("extract.requested_mode", string(mode))))
	defer span.End()

	res := o.extract(ctx, text, mode)
	span.SetAttributes(
		attribute.String("extract.mode", string(res.Mode)),
		attribute.String("extract.fallback_reason", string(res.FallbackReason)),
		attribute.Int("extract.field_count", len(res.Fields)),
	)
	return res
}

func (o *Orchestrator) extract(ctx context.Context, text string, mode Mode) Result {
	if mode != ModeAI {
		return Result{Fields: o.regexFields(ctx, text), Mode: ModeRegex}
	}
	if o.ai == nil {
		log.Printf("extraction: ai mode requested without credential, using regex")
		return Result{Fields: o.regexFields(ctx, text), Mode: ModeRegex, FallbackReason: FallbackNoCredential}
	}

	aiCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	fields, err := o.aiFields(aiCtx, text)
	if err != nil {
		reason := FallbackServiceError
		if errors.Is(err, aiextract.ErrNoCredential) {
			reason = FallbackNoCredential
		}
		log.Printf("extraction: ai extraction failed (%v), using regex", err)
		return Result{Fields: o.regexFields(ctx, text), Mode: ModeRegex, FallbackReason: reason}
	}

	// Model answer wins per field; the regex engine only supplies fields
	// the model omitted.
	for kind, value := range o.regexFields(ctx, text) {
		if _, ok := fields[kind]; !ok {
			fields[kind] = value
		}
	}
	return Result{Fields: fields, Mode: ModeAI}
}

func (o *Orchestrator) aiFields(ctx context.Context, text string) (fieldscan.FieldMap, error) {
	ctx, span := o.tracer.Start(ctx, "extraction.ai")
	defer span.End()
	fields, err := o.ai.ExtractAll(ctx, text)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return fields, nil
}

func (o *Orchestrator) regexFields(ctx context.Context, text string) fieldscan.FieldMap {
	_, span := o.tracer.Start(ctx, "extraction.regex")
	defer span.End()
	return o.engine.ExtractAll(text)
}
