package advice

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider generates advice texts with the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider returns a provider using the given API key and model.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, model: model}, nil
}

// Generate implements Provider.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generating advice: %w", err)
	}

	return response.Text(), nil
}
