// Package insights produces short human-readable observations about the
// user's finances by sending recent transactions and goals to a generative
// model. The rest of the system treats the returned strings as opaque
// display text.
package insights

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"finpulse/internal/core"
)

// Generator turns recent transactions and goals into observation strings.
type Generator interface {
	Observations(ctx context.Context, txns []core.Transaction, goals []core.Goal) ([]string, error)
}

// GeminiGenerator calls the Gemini API. A fresh client is created per call
// so configuration and credentials are always current.
type GeminiGenerator struct {
	model  string
	apiKey string
}

func NewGeminiGenerator(model, apiKey string) *GeminiGenerator {
	return &GeminiGenerator{model: model, apiKey: apiKey}
}

// Observations sends the prompt and expects a strict JSON array of strings
// back. The response schema pins the shape; fence stripping handles models
// that wrap the payload in Markdown anyway.
func (g *GeminiGenerator) Observations(ctx context.Context, txns []core.Transaction, goals []core.Goal) ([]string, error) {
	prompt, err := buildPrompt(txns, goals)
	if err != nil {
		return nil, fmt.Errorf("build insight prompt: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	var observations []string
	if err := json.Unmarshal([]byte(cleanModelJSON(rawText)), &observations); err != nil {
		return nil, fmt.Errorf("unmarshal observations: %w\nraw response: %s", err, rawText)
	}

	return observations, nil
}
