package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/joelkehle/docintake/internal/extraction"
	"github.com/joelkehle/docintake/internal/fieldscan"
)

// BuildMarkdown renders one extraction run as a report document.
func BuildMarkdown(source string, createdAt time.Time, res extraction.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Document Intake Report\n\n")
	if source != "" {
		fmt.Fprintf(&b, "- Source: %s\n", source)
	}
	fmt.Fprintf(&b, "- Extraction mode: %s\n", res.Mode)
	if res.FallbackReason != extraction.FallbackNone {
		fmt.Fprintf(&b, "- Fallback reason: %s\n", res.FallbackReason)
	}
	fmt.Fprintf(&b, "- Date: %s\n\n", createdAt.Format(time.RFC3339))

	fmt.Fprintf(&b, "## Extracted Fields\n\n")
	if len(res.Fields) == 0 {
		fmt.Fprintf(&b, "No fields were detected in this document.\n\n")
	} else {
		fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
		for _, kind := range fieldscan.AllKinds {
			value, ok := res.Fields[kind]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "| %s | %s |\n", kind.Label(), sanitizeCell(value))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Coverage\n\n")
	fmt.Fprintf(&b, "%d of %d fields extracted.\n", len(res.Fields), len(fieldscan.AllKinds))
	var missing []string
	for _, kind := range fieldscan.AllKinds {
		if _, ok := res.Fields[kind]; !ok {
			missing = append(missing, kind.Label())
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(&b, "Not found: %s.\n", strings.Join(missing, ", "))
	}
	return b.String()
}

// RenderHTML converts report markdown to a standalone HTML document.
func RenderHTML(markdown string) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>Intake Report</title>" +
		"<style>" + reportCSS + "</style></head><body><div class='report'>" +
		content.String() + "</div></body></html>", nil
}

const reportCSS = `body{font-family:Georgia,serif;color:#1c1917;background:#fff;margin:0;padding:1rem;}
.report{max-width:820px;margin:0 auto;}
h1{border-bottom:2px solid #a8a29e;padding-bottom:0.3rem;}
table{width:100%;border-collapse:collapse;font-size:0.9rem;}
th,td{border:1px solid #a8a29e;padding:0.35rem 0.45rem;text-align:left;vertical-align:top;}
thead th{background:#f1f5f9;font-weight:700;}`

func sanitizeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.TrimSpace(s)
}
