package analyzer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/brieflab/brief-analyzer/internal/model"
)

// HeuristicAnalyzer extracts brief fields with a deterministic label scan.
// It keeps the service fully functional when no Gemini key is configured.
type HeuristicAnalyzer struct{}

// NewHeuristicAnalyzer creates the fallback analyzer.
func NewHeuristicAnalyzer() *HeuristicAnalyzer {
	return &HeuristicAnalyzer{}
}

// Labels recognized at the start of a line, lowercased.
var fieldLabels = map[string]string{
	"project name":     "project_name",
	"brand name":       "brand_name",
	"brand":            "brand_name",
	"project type":     "project_type",
	"target audience":  "target_audience",
	"audience":         "target_audience",
	"tone of voice":    "tone_of_voice",
	"tone":             "tone_of_voice",
	"timeline":         "timeline",
	"budget":           "budget",
	"additional notes": "additional_notes",
	"notes":            "additional_notes",
}

var listLabels = map[string]string{
	"objectives":   "objectives",
	"goals":        "objectives",
	"key messages": "key_messages",
	"deliverables": "deliverables",
}

// AnalyzeBrief scans the text for the canonical brief fields and renders a
// templated content-writer report.
func (h *HeuristicAnalyzer) AnalyzeBrief(ctx context.Context, text string, opts Options) (*Result, error) {
	brief := h.parse(text)
	brief.AnalysisSummary = summarize(&brief)

	return &Result{
		Brief:               brief,
		ContentWriterReport: contentWriterReport(&brief, opts),
		TokensUsed:          estimateTokens(text),
	}, nil
}

// DesignerReport renders a templated designer report from the stored brief
// and the submitted copy.
func (h *HeuristicAnalyzer) DesignerReport(ctx context.Context, brief *model.Brief, content string) (string, int, error) {
	var sb strings.Builder

	sb.WriteString("# Designer Report: " + orUnknown(brief.Structured.ProjectName) + "\n\n")
	sb.WriteString("## Brand Context\n")
	sb.WriteString("- Brand: " + orUnknown(brief.Structured.BrandName) + "\n")
	sb.WriteString("- Tone of voice: " + orUnknown(brief.Structured.ToneOfVoice) + "\n")
	sb.WriteString("- Target audience: " + orUnknown(brief.Structured.TargetAudience) + "\n\n")

	if len(brief.Structured.Deliverables) > 0 {
		sb.WriteString("## Deliverables To Design\n")
		for _, d := range brief.Structured.Deliverables {
			sb.WriteString("- " + d + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Approved Copy\n")
	sb.WriteString("The content writer delivered the copy below. Layouts should stage\n")
	sb.WriteString("headlines and key messages prominently and keep body copy scannable.\n\n")
	sb.WriteString(excerpt(content, 2000))
	sb.WriteString("\n")

	return sb.String(), estimateTokens(content), nil
}

func (h *HeuristicAnalyzer) parse(text string) model.StructuredBrief {
	var brief model.StructuredBrief
	lists := map[string][]string{}
	currentList := ""

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		line = strings.Trim(line, "*#")
		line = strings.TrimSpace(line)
		if line == "" {
			currentList = ""
			continue
		}

		if item, ok := bulletItem(line); ok {
			if currentList != "" {
				lists[currentList] = append(lists[currentList], item)
			}
			continue
		}

		label, value, ok := splitLabel(line)
		if !ok {
			continue
		}

		if key, found := listLabels[label]; found {
			currentList = key
			if value != "" {
				for _, item := range strings.Split(value, ";") {
					if item = strings.TrimSpace(item); item != "" {
						lists[key] = append(lists[key], item)
					}
				}
			}
			continue
		}
		currentList = ""

		key, found := fieldLabels[label]
		if !found || value == "" {
			continue
		}

		switch key {
		case "project_name":
			brief.ProjectName = value
		case "brand_name":
			brief.BrandName = value
		case "project_type":
			brief.ProjectType = value
		case "target_audience":
			brief.TargetAudience = value
		case "tone_of_voice":
			brief.ToneOfVoice = value
		case "timeline":
			brief.Timeline = value
		case "budget":
			brief.Budget = value
		case "additional_notes":
			brief.AdditionalNotes = value
		}
	}

	brief.Objectives = lists["objectives"]
	brief.KeyMessages = lists["key_messages"]
	brief.Deliverables = lists["deliverables"]

	return brief
}

func splitLabel(line string) (label, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}

	label = strings.ToLower(strings.TrimSpace(strings.Trim(line[:idx], "*")))
	value = strings.TrimSpace(strings.Trim(line[idx+1:], "*"))
	if label == "" {
		return "", "", false
	}

	return label, value, true
}

func bulletItem(line string) (string, bool) {
	for _, prefix := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
		}
	}
	return "", false
}

func summarize(brief *model.StructuredBrief) string {
	var sb strings.Builder

	sb.WriteString(orUnknown(brief.ProjectName))
	if brief.BrandName != "" {
		sb.WriteString(" for " + brief.BrandName)
	}
	if brief.ProjectType != "" {
		sb.WriteString(" (" + brief.ProjectType + ")")
	}
	sb.WriteString(fmt.Sprintf(": %d objectives, %d deliverables",
		len(brief.Objectives), len(brief.Deliverables)))
	if brief.Timeline != "" {
		sb.WriteString(", timeline " + brief.Timeline)
	}
	if brief.Budget != "" {
		sb.WriteString(", budget " + brief.Budget)
	}
	sb.WriteString(".")

	return sb.String()
}

func contentWriterReport(brief *model.StructuredBrief, opts Options) string {
	var sb strings.Builder

	sb.WriteString("# Content Writer Report: " + orUnknown(brief.ProjectName) + "\n\n")
	sb.WriteString("## Overview\n")
	sb.WriteString(summarize(brief) + "\n\n")

	sb.WriteString("## Audience & Voice\n")
	sb.WriteString("- Target audience: " + orUnknown(brief.TargetAudience) + "\n")
	sb.WriteString("- Tone of voice: " + orUnknown(brief.ToneOfVoice) + "\n\n")

	if len(brief.Objectives) > 0 {
		sb.WriteString("## Objectives\n")
		for _, o := range brief.Objectives {
			sb.WriteString("- " + o + "\n")
		}
		sb.WriteString("\n")
	}

	if len(brief.KeyMessages) > 0 {
		sb.WriteString("## Key Messages\n")
		for _, m := range brief.KeyMessages {
			sb.WriteString("- " + m + "\n")
		}
		sb.WriteString("\n")
	}

	if len(brief.Deliverables) > 0 {
		sb.WriteString("## Deliverables\n")
		for _, d := range brief.Deliverables {
			sb.WriteString("- " + d + "\n")
		}
		sb.WriteString("\n")
	}

	if brief.AdditionalNotes != "" {
		sb.WriteString("## Notes\n" + brief.AdditionalNotes + "\n\n")
	}

	if opts.IncludeSuggestions {
		sb.WriteString("## Suggestions\n")
		sb.WriteString("- Lead every deliverable with the strongest key message.\n")
		sb.WriteString("- Write headline variants per objective and A/B test them.\n")
		if brief.ToneOfVoice != "" {
			sb.WriteString("- Keep all copy aligned with the \"" + brief.ToneOfVoice + "\" tone.\n")
		}
	}

	return sb.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// excerpt truncates s to at most max bytes without splitting a rune.
func excerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

// estimateTokens approximates the token count the way the UI expects one:
// roughly four characters per token.
func estimateTokens(text string) int {
	return len(text) / 4
}
