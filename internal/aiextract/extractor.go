package aiextract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/joelkehle/docintake/internal/fieldscan"
)

// maxPromptChars bounds the document text included in the prompt. Field
// values of interest sit near the top of intake documents, so truncation
// rarely loses anything.
const maxPromptChars = 8000

const promptTemplate = `Extract the following fields from the document text below. Return a JSON object whose keys are exactly these, omitting any field not present in the document:

name, email, phone, address, date_of_birth, company, job_title, date, amount, id_number, website, zip_code

Rules:
- Every value must be a string copied from the document, cleaned of label text.
- Omit a key entirely when the document does not contain that field. Never invent values.
- date_of_birth is only a date explicitly presented as a birth date; date is any other primary document date.

Document text:
---
%s
---`

// Extractor asks the model for all twelve fields in a single exchange and
// parses the strict-JSON reply into a field map.
type Extractor struct {
	caller Caller
	sleep  func(time.Duration)
}

func NewExtractor(caller Caller) *Extractor {
	return &Extractor{caller: caller, sleep: time.Sleep}
}

// ExtractAll runs the model exchange with up to three attempts. Malformed
// replies get corrective feedback appended to the retry prompt; transport
// failures back off and retry when transient. Absent fields are missing
// keys in the result, never empty strings.
func (e *Extractor) ExtractAll(ctx context.Context, text string) (fieldscan.FieldMap, error) {
	prompt := fmt.Sprintf(promptTemplate, truncateText(text, maxPromptChars))
	feedback := ""
	for attempt := 1; attempt <= 3; attempt++ {
		fullPrompt := prompt + "\n\nRespond with only valid JSON."
		if feedback != "" {
			fullPrompt += "\n\n" + feedback
		}

		raw, err := e.caller.GenerateJSON(ctx, fullPrompt)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("field extraction: %w", ctx.Err())
			}
			class := classifyTransportError(err)
			if attempt < 3 && (class == failureTimeout || class == failureRateLimit || class == failureServer) {
				e.sleep(backoffDelay(attempt))
				continue
			}
			return nil, serviceError("field extraction", err)
		}

		raw = strings.TrimSpace(raw)
		if raw == "" {
			if attempt < 3 {
				feedback = "Your previous response was empty. Respond with valid JSON."
				continue
			}
			return nil, serviceError("field extraction", fmt.Errorf("empty response"))
		}

		fields, err := parseFields(stripCodeFences(raw))
		if err != nil {
			if attempt < 3 {
				feedback = fmt.Sprintf("Your previous response was rejected: %s. Respond with only a flat JSON object of string values.", err)
				continue
			}
			return nil, serviceError("field extraction", err)
		}
		return fields, nil
	}
	return nil, serviceError("field extraction", fmt.Errorf("exhausted retries"))
}

// parseFields accepts only known snake_case keys with non-empty string (or
// null) values. Unknown keys are an error so the corrective retry can fix
// drifting output rather than silently dropping it.
func parseFields(clean string) (fieldscan.FieldMap, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(clean), &obj); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	known := make(map[string]fieldscan.FieldKind, len(fieldscan.AllKinds))
	for _, kind := range fieldscan.AllKinds {
		known[string(kind)] = kind
	}

	fields := make(fieldscan.FieldMap)
	for key, v := range obj {
		kind, ok := known[key]
		if !ok {
			return nil, fmt.Errorf("unknown field %q", key)
		}
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field %q is not a string", key)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		fields[kind] = s
	}
	return fields, nil
}

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
