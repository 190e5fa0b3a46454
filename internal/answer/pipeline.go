package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"eyeai/internal/index"
	"eyeai/internal/llm"
	"eyeai/internal/models"
	"eyeai/internal/processor"

	"golang.org/x/text/language"
)

// DefaultK is the number of passages retrieved per query.
const DefaultK = 10

// Pipeline turns a diagnosis and patient history into cause and treatment
// text grounded in the diagnosis' reference document. It holds no
// per-request state and is safe for concurrent use.
type Pipeline struct {
	Processor    *processor.DocumentProcessor
	Builder      *index.Builder
	Generator    llm.Generator
	DocumentsDir string
	K            int
	Logger       *slog.Logger
}

// Answer returns the treatment and cause text for pc, in that order.
func (p *Pipeline) Answer(ctx context.Context, pc models.PatientContext) (treatment, cause string, err error) {
	lang, err := ParseLanguage(pc.Language)
	if err != nil {
		return "", "", err
	}

	if IsNormal(pc.Diagnosis) {
		msg := NormalMessage(lang)
		return msg, msg, nil
	}

	if p.Generator == nil || p.Builder == nil || p.Processor == nil {
		return "", "", errors.New("answer pipeline is not configured")
	}

	docName, err := DocumentFor(pc.Diagnosis)
	if err != nil {
		return "", "", err
	}

	start := time.Now()
	log := p.logger().With("diagnosis", pc.Diagnosis, "document", docName, "language", lang.String())

	chunks, err := p.Processor.ProcessDocument(ctx, filepath.Join(p.DocumentsDir, docName))
	if err != nil {
		return "", "", fmt.Errorf("failed to load %s: %w", docName, err)
	}
	ix, err := p.Builder.Build(ctx, docName, chunks)
	if err != nil {
		return "", "", err
	}
	log.Debug("reference index ready", "chunks", ix.Len())

	summary, err := p.Generator.Generate(ctx, llm.SummaryPrompt(pc.History))
	if err != nil {
		return "", "", fmt.Errorf("failed to summarize history: %w", err)
	}

	causeRefs, err := ix.Search(ctx, summary, p.k())
	if err != nil {
		return "", "", fmt.Errorf("failed to retrieve cause references: %w", err)
	}
	cause, err = p.Generator.Generate(ctx, llm.CausesPrompt(pc.Diagnosis, summary, joinChunks(causeRefs, "\n\n\n")))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate causes: %w", err)
	}

	treatmentRefs, err := ix.Search(ctx, TreatmentQuery(pc.Diagnosis), p.k())
	if err != nil {
		return "", "", fmt.Errorf("failed to retrieve treatment references: %w", err)
	}
	treatment, err = p.Generator.Generate(ctx, llm.TreatmentPrompt(pc.Diagnosis, cause, joinChunks(treatmentRefs, "\n\n")))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate treatment: %w", err)
	}

	if lang != language.English {
		cause, err = p.Generator.Generate(ctx, llm.TranslatePrompt(lang, cause))
		if err != nil {
			return "", "", fmt.Errorf("failed to translate causes: %w", err)
		}
		treatment, err = p.Generator.Generate(ctx, llm.TranslatePrompt(lang, treatment))
		if err != nil {
			return "", "", fmt.Errorf("failed to translate treatment: %w", err)
		}
	}

	log.Info("answer generated", "duration", time.Since(start))
	return treatment, cause, nil
}

// TreatmentQuery is the retrieval query used for the treatment passages.
func TreatmentQuery(diagnosis string) string {
	return "Treatment methods for " + diagnosis
}

func joinChunks(chunks []models.ScoredChunk, sep string) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Chunk.Content
	}
	return strings.Join(parts, sep)
}

func (p *Pipeline) k() int {
	if p.K > 0 {
		return p.K
	}
	return DefaultK
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
