// Package docsource loads document text from local files ahead of field
// extraction. Plain text is read directly; PDFs go through pdftotext with a
// printable-byte sweep as the last resort for broken files.
package docsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	maxSourceBytes = 20 * 1024 * 1024
	maxTextRun     = 24000
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

type Document struct {
	Text      string
	Method    string
	Truncated bool
}

// Load reads a document and returns its text. The method field records
// which extraction path produced the text.
func Load(ctx context.Context, path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, err
	}
	if info.Size() > maxSourceBytes {
		return Document{}, fmt.Errorf("document too large: %d bytes", info.Size())
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".md":
		blob, err := os.ReadFile(path)
		if err != nil {
			return Document{}, err
		}
		return truncateDocument(string(blob), "plain"), nil
	case ".pdf":
		return loadPDF(ctx, path)
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func loadPDF(ctx context.Context, path string) (Document, error) {
	if text, err := runPdfToText(ctx, path); err == nil && strings.TrimSpace(text) != "" {
		return truncateDocument(text, "pdftotext"), nil
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	fallback := extractPrintableText(blob)
	if strings.TrimSpace(fallback) == "" {
		return Document{}, errors.New("no extractable text found")
	}
	return truncateDocument(fallback, "byte-fallback"), nil
}

func runPdfToText(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func extractPrintableText(blob []byte) string {
	var runs []string
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		if len(s) >= 24 {
			runs = append(runs, s)
		}
		b.Reset()
	}
	for _, c := range blob {
		r := rune(c)
		if unicode.IsPrint(r) || r == '\n' || r == '\t' || r == '\r' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	joined := strings.Join(runs, "\n")
	joined = strings.ReplaceAll(joined, "\x00", "")
	return strings.TrimSpace(joined)
}

func truncateDocument(text, method string) Document {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= maxTextRun {
		return Document{Text: trimmed, Method: method}
	}
	prefix := trimmed[:maxTextRun]
	// Avoid cutting in the middle of a rune sequence.
	prefix = string(bytes.Runes([]byte(prefix)))
	return Document{Text: prefix, Method: method, Truncated: true}
}
