package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/brieflab/brief-analyzer/internal/config"
	"github.com/brieflab/brief-analyzer/internal/model"
	"github.com/brieflab/brief-analyzer/internal/pool"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

// GeminiAnalyzer calls the Gemini generateContent API.
type GeminiAnalyzer struct {
	client  *retryablehttp.Client
	apiKey  string
	model   string
	baseURL string
	timeout time.Duration
	prompts *pool.Pool[*promptBuilder]
}

// NewGeminiAnalyzer builds a Gemini-backed analyzer from the configuration.
func NewGeminiAnalyzer(cfg *config.Config) *GeminiAnalyzer {
	client := retryablehttp.NewClient()
	client.HTTPClient = cleanhttp.DefaultPooledClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = nil

	return &GeminiAnalyzer{
		client:  client,
		apiKey:  cfg.GeminiAPIKey,
		model:   cfg.GeminiModel,
		baseURL: strings.TrimSuffix(cfg.GeminiBaseURL, "/"),
		timeout: time.Duration(cfg.APITimeout) * time.Second,
		prompts: pool.New[*promptBuilder](8),
	}
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// analysisPayload is the JSON object the analysis prompt requests.
type analysisPayload struct {
	model.StructuredBrief
	ContentWriterReport string `json:"content_writer_report"`
}

// AnalyzeBrief runs the stage 1 analysis through the Gemini API.
func (g *GeminiAnalyzer) AnalyzeBrief(ctx context.Context, text string, opts Options) (*Result, error) {
	builder := g.prompts.Get()
	if builder == nil {
		builder = &promptBuilder{}
	}
	prompt := builder.analysisPrompt(text, opts)
	g.prompts.Put(builder)

	raw, tokens, err := g.generate(ctx, prompt, true)
	if err != nil {
		return nil, fmt.Errorf("gemini analysis failed: %w", err)
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("gemini returned malformed analysis: %w", err)
	}

	return &Result{
		Brief:               payload.StructuredBrief,
		ContentWriterReport: payload.ContentWriterReport,
		TokensUsed:          tokens,
	}, nil
}

// DesignerReport runs the stage 2 report generation through the Gemini API.
func (g *GeminiAnalyzer) DesignerReport(ctx context.Context, brief *model.Brief, content string) (string, int, error) {
	builder := g.prompts.Get()
	if builder == nil {
		builder = &promptBuilder{}
	}
	prompt := builder.designerPrompt(brief, content)
	g.prompts.Put(builder)

	report, tokens, err := g.generate(ctx, prompt, false)
	if err != nil {
		return "", 0, fmt.Errorf("gemini designer report failed: %w", err)
	}

	return report, tokens, nil
}

// generate posts a prompt to the generateContent endpoint and returns the
// first candidate's text.
func (g *GeminiAnalyzer) generate(ctx context.Context, prompt string, jsonMode bool) (string, int, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	if jsonMode {
		reqBody.GenerationConfig = &geminiGenerationConfig{ResponseMimeType: "application/json"}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", 0, fmt.Errorf("error marshaling request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("error calling gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("model", g.model).Msg("Gemini request rejected")
		return "", 0, fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", 0, fmt.Errorf("error decoding gemini response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", 0, fmt.Errorf("gemini returned no candidates")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, parsed.UsageMetadata.TotalTokenCount, nil
}
