// Package generator produces event descriptions, tags, locations and cover
// images through the Gemini API. Generation never fails from the caller's
// point of view: provider errors degrade to placeholder or fallback values.
package generator

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/tempohub/tempohub-service/internal/metrics"
	"github.com/tempohub/tempohub-service/internal/models"
)

const (
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "gemini-2.5-flash-image"

	defaultDescription = "An exclusive event."
	defaultLocation    = "TBD"

	placeholderImageFormat = "https://picsum.photos/800/600?random=%d"
)

// ErrMissingAPIKey is recorded when no provider credential is configured.
var ErrMissingAPIKey = errors.New("API key missing")

// Fallback is the result returned whenever the generation sequence fails
// outside the image step.
func Fallback() models.GenerationResult {
	return models.GenerationResult{
		Description:        "Experience the future of events.",
		Tags:               []string{"Future", "Tech"},
		LocationSuggestion: "Virtual Space",
		ImageURL:           "https://picsum.photos/800/600",
	}
}

// ContentGenerator is the part of the genai client the generator calls.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config selects the provider credential and models.
type Config struct {
	APIKey     string
	TextModel  string
	ImageModel string
}

// Generator issues the text request followed by the image request.
type Generator struct {
	models     ContentGenerator
	initErr    error
	textModel  string
	imageModel string
	intn       func(n int) int
	logger     *zap.Logger
}

// New creates a Generator backed by the Gemini API. A missing API key or a
// client construction failure is not returned: it is logged and every later
// call to Generate yields the fallback result.
func New(ctx context.Context, cfg Config, logger *zap.Logger) *Generator {
	logger = logger.Named("generator")

	if cfg.APIKey == "" {
		logger.Error("API_KEY is missing in environment variables")
		return newGenerator(nil, ErrMissingAPIKey, cfg, logger)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logger.Error("Failed to create GenAI client", zap.Error(err))
		return newGenerator(nil, fmt.Errorf("failed to create GenAI client: %w", err), cfg, logger)
	}

	return newGenerator(client.Models, nil, cfg, logger)
}

// NewWithClient creates a Generator around an existing content generator.
func NewWithClient(client ContentGenerator, cfg Config, logger *zap.Logger) *Generator {
	return newGenerator(client, nil, cfg, logger.Named("generator"))
}

func newGenerator(client ContentGenerator, initErr error, cfg Config, logger *zap.Logger) *Generator {
	if cfg.TextModel == "" {
		cfg.TextModel = DefaultTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultImageModel
	}
	if client == nil && initErr == nil {
		initErr = ErrMissingAPIKey
	}
	return &Generator{
		models:     client,
		initErr:    initErr,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		intn:       rand.Intn,
		logger:     logger,
	}
}

// Generate produces event details for title, using eventContext as extra
// guidance. It always returns a usable result.
func (g *Generator) Generate(ctx context.Context, title, eventContext string) models.GenerationResult {
	start := time.Now()

	result, outcome, err := g.generate(ctx, title, eventContext)
	if err != nil {
		g.logger.Error("Generation failed, using fallback",
			zap.String("title", title),
			zap.Error(err))
		result, outcome = Fallback(), metrics.OutcomeFallback
	}

	metrics.TrackGeneration(outcome, time.Since(start))
	return result
}

// eventMetadata mirrors the JSON schema requested from the text model.
type eventMetadata struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Location    string   `json:"location"`
}

func (g *Generator) generate(ctx context.Context, title, eventContext string) (models.GenerationResult, string, error) {
	if g.initErr != nil {
		return models.GenerationResult{}, "", g.initErr
	}

	// 1. Text metadata
	textResp, err := g.models.GenerateContent(ctx, g.textModel, genai.Text(textPrompt(title, eventContext)), metadataConfig())
	if err != nil {
		return models.GenerationResult{}, "", fmt.Errorf("text generation failed: %w", err)
	}

	metadata, err := parseMetadata(textResp)
	if err != nil {
		return models.GenerationResult{}, "", err
	}

	// 2. Cover image
	outcome := metrics.OutcomeSuccess
	imageURL, err := g.generateImage(ctx, title)
	if err != nil {
		g.logger.Warn("Image generation failed, using placeholder", zap.Error(err))
	}
	if imageURL == "" {
		imageURL = g.placeholderImage()
		outcome = metrics.OutcomeImagePlaceholder
	}

	result := models.GenerationResult{
		Description:        metadata.Description,
		Tags:               metadata.Tags,
		LocationSuggestion: metadata.Location,
		ImageURL:           imageURL,
	}
	if result.Description == "" {
		result.Description = defaultDescription
	}
	if result.Tags == nil {
		result.Tags = []string{"Event"}
	}
	if result.LocationSuggestion == "" {
		result.LocationSuggestion = defaultLocation
	}

	g.logger.Debug("Generated event details",
		zap.String("title", title),
		zap.Strings("tags", result.Tags),
		zap.String("outcome", outcome))

	return result, outcome, nil
}

func (g *Generator) generateImage(ctx context.Context, title string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.imageModel, genai.Text(imagePrompt(title)), nil)
	if err != nil {
		return "", err
	}
	return inlineImage(resp), nil
}

func (g *Generator) placeholderImage() string {
	return fmt.Sprintf(placeholderImageFormat, g.intn(1000))
}

func parseMetadata(resp *genai.GenerateContentResponse) (eventMetadata, error) {
	var metadata eventMetadata

	text := ""
	if resp != nil {
		text = resp.Text()
	}
	if text == "" {
		text = "{}"
	}

	var raw interface{}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return eventMetadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}

	switch raw.(type) {
	case nil:
		return eventMetadata{}, errors.New("metadata response is null")
	case map[string]interface{}:
		if err := json.Unmarshal([]byte(text), &metadata); err != nil {
			return eventMetadata{}, fmt.Errorf("failed to parse metadata: %w", err)
		}
	}
	// Arrays and scalars carry no fields, so every field takes its default.
	return metadata, nil
}

// inlineImage returns the first inline image of the first candidate as a data URI.
func inlineImage(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}
	for _, part := range content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		return fmt.Sprintf("data:%s;base64,%s",
			part.InlineData.MIMEType,
			base64.StdEncoding.EncodeToString(part.InlineData.Data))
	}
	return ""
}

func metadataConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"description": {Type: genai.TypeString},
				"tags": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"location": {Type: genai.TypeString},
			},
			Required: []string{"description", "tags", "location"},
		},
	}
}
