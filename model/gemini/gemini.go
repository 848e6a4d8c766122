// Package gemini provides a model wrapper for the Google Gemini API.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/hupe1980/panelmesh/model"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Options configures the Gemini model adapter (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	// APIKey overrides the GEMINI_API_KEY environment variable.
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// Model wraps the Gemini generate-content API behind the generic model.Model interface.
type Model struct {
	client *genai.Client
	opts   Options
}

var _ model.Model = (*Model)(nil)

// NewModel creates a new Gemini model using the official client. Client
// construction performs credential resolution, so unlike the other providers
// it can fail.
func NewModel(ctx context.Context, optFns ...func(o *Options)) (*Model, error) {
	opts := applyOptions(optFns...)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: opts.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Model{client: client, opts: opts}, nil
}

// NewModelFromClient creates a new Gemini model from an existing client
func NewModelFromClient(client *genai.Client, optFns ...func(o *Options)) *Model {
	return &Model{client: client, opts: applyOptions(optFns...)}
}

func applyOptions(optFns ...func(o *Options)) Options {
	opts := Options{
		Model:           DefaultModel,
		Temperature:     0.8,
		MaxOutputTokens: 1024,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return opts
}

// Generate produces a single complete panelist reply.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(m.opts.Temperature),
		MaxOutputTokens: m.opts.MaxOutputTokens,
	}
	if req.Instructions != "" {
		config.SystemInstruction = genai.NewContentFromText(req.Instructions, genai.RoleUser)
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.opts.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned")
	}

	out := &model.Response{Text: resp.Text()}
	if usage := resp.UsageMetadata; usage != nil {
		out.Usage = &model.TokenUsage{
			PromptTokens:     int(usage.PromptTokenCount),
			CompletionTokens: int(usage.CandidatesTokenCount),
			TotalTokens:      int(usage.TotalTokenCount),
		}
	}

	return out, nil
}

// Info returns metadata describing this Gemini model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:     m.opts.Model,
		Provider: "gemini",
	}
}
