// Package trends asks a hosted language model for a narrative analysis of
// the sales ledger.
package trends

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrUnavailable covers every summarizer failure: missing key, timeout,
// quota, malformed output.
var ErrUnavailable = errors.New("trends analysis unavailable")

type Analysis struct {
	TrendsAnalysis   string `json:"trendsAnalysis"`
	SuggestedActions string `json:"suggestedActions"`
}

type Summarizer interface {
	// Analyze takes sales encoded as "name:quantity, name:quantity".
	Analyze(ctx context.Context, salesData string) (Analysis, error)
}

const promptTemplate = `You are an expert sales analyst for small shopkeepers.

Analyze the following sales data to identify key trends and suggest actionable strategies for the shopkeeper.

Sales Data:
%s

Based on this data, provide a trends analysis and suggest specific actions regarding restocking, promotions, or other business strategies.

Make sure to provide a detailed trendsAnalysis and specific suggestedActions for the shopkeeper.`

// Prompt renders the analyst prompt for salesData.
func Prompt(salesData string) string { return fmt.Sprintf(promptTemplate, salesData) }

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"trendsAnalysis": {
			Type:        genai.TypeString,
			Description: "A detailed analysis of the sales trends, including popular items, sales patterns, and potential opportunities for promotions or restocking.",
		},
		"suggestedActions": {
			Type:        genai.TypeString,
			Description: "Specific actions the shopkeeper should consider based on the trends analysis, such as restocking recommendations or promotion ideas.",
		},
	},
	Required: []string{"trendsAnalysis", "suggestedActions"},
}

// Gemini is a Summarizer backed by the Gemini API.
type Gemini struct {
	client    *genai.Client
	modelName string
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("trends: missing api key: %w", ErrUnavailable)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("trends: create gemini client: %w", err)
	}
	return &Gemini{client: client, modelName: modelName}, nil
}

func (g *Gemini) Close() error { return g.client.Close() }

func (g *Gemini) Analyze(ctx context.Context, salesData string) (Analysis, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = responseSchema

	res, err := model.GenerateContent(ctx, genai.Text(Prompt(salesData)))
	if err != nil {
		return Analysis{}, fmt.Errorf("trends: generate: %v: %w", err, ErrUnavailable)
	}
	return parseResponse(res)
}

func parseResponse(res *genai.GenerateContentResponse) (Analysis, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return Analysis{}, fmt.Errorf("trends: empty response: %w", ErrUnavailable)
	}
	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return Decode(sb.String())
}

// Decode parses the model's JSON answer. Both fields must be present.
func Decode(raw string) (Analysis, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var a Analysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &a); err != nil {
		return Analysis{}, fmt.Errorf("trends: malformed response: %v: %w", err, ErrUnavailable)
	}
	if strings.TrimSpace(a.TrendsAnalysis) == "" || strings.TrimSpace(a.SuggestedActions) == "" {
		return Analysis{}, fmt.Errorf("trends: incomplete response: %w", ErrUnavailable)
	}
	return a, nil
}

// Unconfigured is used when no API key is set; every call fails.
type Unconfigured struct{}

func (Unconfigured) Analyze(context.Context, string) (Analysis, error) {
	return Analysis{}, fmt.Errorf("trends: no model configured: %w", ErrUnavailable)
}
