package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joelkehle/docintake/internal/aiextract"
	"github.com/joelkehle/docintake/internal/docsource"
	"github.com/joelkehle/docintake/internal/export"
	"github.com/joelkehle/docintake/internal/extraction"
	"github.com/joelkehle/docintake/internal/fieldscan"
)

func main() {
	filePath := flag.String("file", "", "document file to extract (.txt or .pdf)")
	text := flag.String("text", "", "raw document text (alternative to -file)")
	mode := flag.String("mode", "auto", "extraction mode: ai, regex, or auto")
	formatName := flag.String("format", "txt", "output format: txt, csv, or json")
	outPath := flag.String("o", "", "write output to file instead of stdout")
	reportPDF := flag.String("report-pdf", "", "also write a PDF report to this path")
	aiTimeout := flag.Duration("ai-timeout", 60*time.Second, "model call timeout")
	flag.Parse()

	format, err := export.ParseFormat(*formatName)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	docText, source, err := loadInput(ctx, *filePath, *text)
	if err != nil {
		log.Fatal(err)
	}

	ai, resolvedMode := resolveMode(*mode)
	orch := extraction.NewOrchestrator(ai, fieldscan.NewEngine(fieldscan.DefaultConfig()), *aiTimeout)
	res := orch.Extract(ctx, docText, resolvedMode)
	if res.FallbackReason != extraction.FallbackNone {
		log.Printf("fell back to regex extraction: %s", res.FallbackReason)
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = f
	}
	if err := export.Write(out, format, res.Fields); err != nil {
		log.Fatal(err)
	}

	if *reportPDF != "" {
		markdown := export.BuildMarkdown(source, time.Now().UTC(), res)
		pdf, err := export.NewChromiumPDFRenderer().Render(ctx, markdown)
		if err != nil {
			log.Fatalf("render pdf report: %v", err)
		}
		if err := os.WriteFile(*reportPDF, pdf, 0o644); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote report to %s", *reportPDF)
	}
}

func loadInput(ctx context.Context, filePath, text string) (docText, source string, err error) {
	switch {
	case filePath != "" && text != "":
		return "", "", errors.New("use either -file or -text, not both")
	case filePath != "":
		doc, err := docsource.Load(ctx, filePath)
		if err != nil {
			return "", "", fmt.Errorf("load %s: %w", filePath, err)
		}
		if doc.Truncated {
			log.Printf("document truncated for extraction (method=%s)", doc.Method)
		}
		return doc.Text, filePath, nil
	case text != "":
		return text, "", nil
	default:
		return "", "", errors.New("one of -file or -text is required")
	}
}

// resolveMode maps the CLI mode flag to an orchestrator mode. "auto" means
// ai when a credential is configured, regex otherwise.
func resolveMode(mode string) (extraction.Extractor, extraction.Mode) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "regex":
		return nil, extraction.ModeRegex
	case "ai":
		caller, err := aiextract.NewAnthropicCallerFromEnv()
		if err != nil {
			// The orchestrator records the no_credential fallback.
			return nil, extraction.ModeAI
		}
		return aiextract.NewExtractor(caller), extraction.ModeAI
	case "auto", "":
		caller, err := aiextract.NewAnthropicCallerFromEnv()
		if err != nil {
			return nil, extraction.ModeRegex
		}
		return aiextract.NewExtractor(caller), extraction.ModeAI
	default:
		log.Fatalf("unknown mode %q (want ai, regex, or auto)", mode)
		return nil, ""
	}
}
