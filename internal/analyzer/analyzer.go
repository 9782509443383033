// Package analyzer turns extracted brief text into structured analysis and
// role-specific reports, either through the Gemini API or a deterministic
// heuristic fallback when no API key is configured.
package analyzer

import (
	"context"

	"github.com/brieflab/brief-analyzer/internal/config"
	"github.com/brieflab/brief-analyzer/internal/model"
)

// Options control the depth and extras of an analysis run.
type Options struct {
	AnalysisType       string
	IncludeSuggestions bool
}

// Result is the outcome of a stage 1 analysis.
type Result struct {
	Brief               model.StructuredBrief
	ContentWriterReport string
	TokensUsed          int
}

// Analyzer produces the stage 1 and stage 2 artifacts.
type Analyzer interface {
	AnalyzeBrief(ctx context.Context, text string, opts Options) (*Result, error)
	DesignerReport(ctx context.Context, brief *model.Brief, content string) (string, int, error)
}

// New selects the Gemini-backed analyzer when an API key is configured and
// falls back to the heuristic analyzer otherwise.
func New(cfg *config.Config) Analyzer {
	if cfg.GeminiAPIKey != "" {
		return NewGeminiAnalyzer(cfg)
	}
	return NewHeuristicAnalyzer()
}
