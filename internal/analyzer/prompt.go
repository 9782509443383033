package analyzer

import (
	"strings"

	"github.com/brieflab/brief-analyzer/internal/model"
)

// promptBuilder assembles LLM prompts. Instances are recycled through a
// pool.Pool between requests.
type promptBuilder struct {
	sb strings.Builder
}

// Reset clears the builder for reuse.
func (b *promptBuilder) Reset() {
	b.sb.Reset()
}

func (b *promptBuilder) line(s string) *promptBuilder {
	b.sb.WriteString(s)
	b.sb.WriteByte('\n')
	return b
}

func (b *promptBuilder) String() string {
	return b.sb.String()
}

// analysisPrompt asks the model for a JSON object matching the structured
// brief fields plus a content_writer_report string.
func (b *promptBuilder) analysisPrompt(text string, opts Options) string {
	b.line("You are an expert marketing strategist analyzing a project brief.")
	b.line("Analysis depth: " + opts.AnalysisType + ".")
	b.line("Respond with a single JSON object with these keys:")
	b.line(`project_name, brand_name, project_type, target_audience,`)
	b.line(`objectives (array), key_messages (array), tone_of_voice,`)
	b.line(`deliverables (array), timeline, budget, additional_notes,`)
	b.line(`analysis_summary, content_writer_report.`)
	b.line("The content_writer_report must give a content writer everything")
	b.line("needed to start: audience, messaging, tone and deliverables.")
	if opts.IncludeSuggestions {
		b.line("Close the report with a 'Suggestions' section of concrete,")
		b.line("actionable recommendations.")
	}
	b.line("")
	b.line("Project brief:")
	b.line(text)
	return b.String()
}

// designerPrompt asks the model for a plain-text designer report.
func (b *promptBuilder) designerPrompt(brief *model.Brief, content string) string {
	b.line("You are an expert creative director preparing a designer report.")
	b.line("Project: " + brief.Structured.ProjectName)
	b.line("Brand: " + brief.Structured.BrandName)
	b.line("Tone of voice: " + brief.Structured.ToneOfVoice)
	b.line("Target audience: " + brief.Structured.TargetAudience)
	b.line("")
	b.line("The content writer delivered the following copy. Produce a")
	b.line("designer-facing report: visual direction, layout guidance per")
	b.line("deliverable, and how the copy should be staged.")
	b.line("")
	b.line("Copy:")
	b.line(content)
	return b.String()
}
