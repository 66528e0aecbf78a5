package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/tempohub/tempohub-service/internal/models"
)

type call struct {
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

// fakeModels answers by model name and records every request in order.
type fakeModels struct {
	responses map[string]*genai.GenerateContentResponse
	errs      map[string]error
	calls     []call
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var prompt strings.Builder
	for _, c := range contents {
		for _, p := range c.Parts {
			prompt.WriteString(p.Text)
		}
	}
	f.calls = append(f.calls, call{model: model, prompt: prompt.String(), config: config})

	if err := f.errs[model]; err != nil {
		return nil, err
	}
	return f.responses[model], nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func imageResponse(mime string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here is your poster"},
				{InlineData: &genai.Blob{MIMEType: mime, Data: data}},
			}},
		}},
	}
}

func newTestGenerator(fake *fakeModels) *Generator {
	g := NewWithClient(fake, Config{}, zap.NewNop())
	g.intn = func(int) int { return 42 }
	return g
}

func TestGenerate_Success(t *testing.T) {
	fake := &fakeModels{
		responses: map[string]*genai.GenerateContentResponse{
			DefaultTextModel:  textResponse(`{"description":"Bass all night.","tags":["Techno","Club","Night"],"location":"Berghain"}`),
			DefaultImageModel: imageResponse("image/png", []byte("png-bytes")),
		},
	}

	got := newTestGenerator(fake).Generate(context.Background(), "Warehouse Rave", "industrial vibes")

	want := models.GenerationResult{
		Description:        "Bass all night.",
		Tags:               []string{"Techno", "Club", "Night"},
		LocationSuggestion: "Berghain",
		ImageURL:           "data:image/png;base64,cG5nLWJ5dGVz",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Generate() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_TextBeforeImage(t *testing.T) {
	fake := &fakeModels{
		responses: map[string]*genai.GenerateContentResponse{
			DefaultTextModel:  textResponse(`{}`),
			DefaultImageModel: imageResponse("image/png", []byte{1}),
		},
	}

	newTestGenerator(fake).Generate(context.Background(), "Jazz Brunch", "sunday")

	require.Len(t, fake.calls, 2)
	assert.Equal(t, DefaultTextModel, fake.calls[0].model)
	assert.Contains(t, fake.calls[0].prompt, `"Jazz Brunch"`)
	assert.Contains(t, fake.calls[0].prompt, `"sunday"`)
	require.NotNil(t, fake.calls[0].config)
	assert.Equal(t, "application/json", fake.calls[0].config.ResponseMIMEType)
	assert.Equal(t, []string{"description", "tags", "location"}, fake.calls[0].config.ResponseSchema.Required)

	assert.Equal(t, DefaultImageModel, fake.calls[1].model)
	assert.Contains(t, fake.calls[1].prompt, `"Jazz Brunch"`)
	assert.Nil(t, fake.calls[1].config)
}

func TestGenerate_FieldDefaults(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.GenerationResult
	}{
		{
			name: "empty object",
			text: `{}`,
			want: models.GenerationResult{Description: "An exclusive event.", Tags: []string{"Event"}, LocationSuggestion: "TBD"},
		},
		{
			name: "empty response text",
			text: ``,
			want: models.GenerationResult{Description: "An exclusive event.", Tags: []string{"Event"}, LocationSuggestion: "TBD"},
		},
		{
			name: "blank strings and null tags",
			text: `{"description":"","tags":null,"location":""}`,
			want: models.GenerationResult{Description: "An exclusive event.", Tags: []string{"Event"}, LocationSuggestion: "TBD"},
		},
		{
			name: "array body",
			text: `[]`,
			want: models.GenerationResult{Description: "An exclusive event.", Tags: []string{"Event"}, LocationSuggestion: "TBD"},
		},
		{
			name: "string body",
			text: `"hello"`,
			want: models.GenerationResult{Description: "An exclusive event.", Tags: []string{"Event"}, LocationSuggestion: "TBD"},
		},
		{
			name: "present empty tag list is kept",
			text: `{"description":"Quiet.","tags":[],"location":"Library"}`,
			want: models.GenerationResult{Description: "Quiet.", Tags: []string{}, LocationSuggestion: "Library"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeModels{
				responses: map[string]*genai.GenerateContentResponse{
					DefaultTextModel:  textResponse(tt.text),
					DefaultImageModel: imageResponse("image/jpeg", []byte("jpg")),
				},
			}

			got := newTestGenerator(fake).Generate(context.Background(), "Title", "")
			tt.want.ImageURL = "data:image/jpeg;base64,anBn"

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Generate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenerate_ImageFailureUsesPlaceholder(t *testing.T) {
	fake := &fakeModels{
		responses: map[string]*genai.GenerateContentResponse{
			DefaultTextModel: textResponse(`{"description":"Live jazz.","tags":["Jazz"],"location":"Blue Note"}`),
		},
		errs: map[string]error{DefaultImageModel: errors.New("quota exceeded")},
	}

	got := newTestGenerator(fake).Generate(context.Background(), "Jazz Night", "")

	assert.Equal(t, "Live jazz.", got.Description)
	assert.Equal(t, []string{"Jazz"}, got.Tags)
	assert.Equal(t, "Blue Note", got.LocationSuggestion)
	assert.Equal(t, "https://picsum.photos/800/600?random=42", got.ImageURL)
}

func TestGenerate_ImageWithoutInlineData(t *testing.T) {
	tests := map[string]*genai.GenerateContentResponse{
		"no candidates": {},
		"text only":     textResponse("I cannot draw that"),
		"empty blob":    imageResponse("image/png", nil),
		"nil content":   {Candidates: []*genai.Candidate{{}}},
		"nil response":  nil,
	}

	for name, imageResp := range tests {
		t.Run(name, func(t *testing.T) {
			fake := &fakeModels{
				responses: map[string]*genai.GenerateContentResponse{
					DefaultTextModel:  textResponse(`{"description":"d","tags":["t"],"location":"l"}`),
					DefaultImageModel: imageResp,
				},
			}

			got := newTestGenerator(fake).Generate(context.Background(), "Title", "")

			assert.Equal(t, "https://picsum.photos/800/600?random=42", got.ImageURL)
			assert.Equal(t, "d", got.Description)
		})
	}
}

func TestGenerate_PlaceholderIsRandomized(t *testing.T) {
	fake := &fakeModels{
		responses: map[string]*genai.GenerateContentResponse{DefaultTextModel: textResponse(`{}`)},
		errs:      map[string]error{DefaultImageModel: errors.New("boom")},
	}
	g := NewWithClient(fake, Config{}, zap.NewNop())

	for i := 0; i < 20; i++ {
		got := g.Generate(context.Background(), "Title", "")
		require.True(t, strings.HasPrefix(got.ImageURL, "https://picsum.photos/800/600?random="), got.ImageURL)
		assert.NotEqual(t, "https://picsum.photos/800/600?random=", got.ImageURL)
	}
}

func TestGenerate_FallbackOnTextFailure(t *testing.T) {
	fake := &fakeModels{
		errs: map[string]error{DefaultTextModel: errors.New("permission denied")},
	}

	got := newTestGenerator(fake).Generate(context.Background(), "Anything", "ctx")

	if diff := cmp.Diff(Fallback(), got); diff != "" {
		t.Fatalf("Generate() mismatch (-want +got):\n%s", diff)
	}
	// The image step is never reached.
	assert.Len(t, fake.calls, 1)
}

func TestGenerate_FallbackOnMalformedJSON(t *testing.T) {
	fake := &fakeModels{
		responses: map[string]*genai.GenerateContentResponse{
			DefaultTextModel:  textResponse(`description: not json`),
			DefaultImageModel: imageResponse("image/png", []byte{1}),
		},
	}

	got := newTestGenerator(fake).Generate(context.Background(), "Anything", "")

	assert.Equal(t, Fallback(), got)
	assert.Len(t, fake.calls, 1)
}

func TestGenerate_FallbackOnNullJSON(t *testing.T) {
	fake := &fakeModels{
		responses: map[string]*genai.GenerateContentResponse{
			DefaultTextModel:  textResponse(`null`),
			DefaultImageModel: imageResponse("image/png", []byte{1}),
		},
	}

	got := newTestGenerator(fake).Generate(context.Background(), "Anything", "")

	assert.Equal(t, Fallback(), got)
	assert.Len(t, fake.calls, 1)
}

func TestGenerate_FallbackWithoutCredential(t *testing.T) {
	g := New(context.Background(), Config{APIKey: ""}, zap.NewNop())

	got := g.Generate(context.Background(), "Anything", "")

	assert.Equal(t, Fallback(), got)
	assert.ErrorIs(t, g.initErr, ErrMissingAPIKey)
}

func TestFallback_IsExact(t *testing.T) {
	assert.Equal(t, models.GenerationResult{
		Description:        "Experience the future of events.",
		Tags:               []string{"Future", "Tech"},
		LocationSuggestion: "Virtual Space",
		ImageURL:           "https://picsum.photos/800/600",
	}, Fallback())

	// Callers may mutate the result without affecting later fallbacks.
	first := Fallback()
	first.Tags[0] = "Changed"
	assert.Equal(t, "Future", Fallback().Tags[0])
}

func TestNewWithClient_CustomModels(t *testing.T) {
	fake := &fakeModels{
		responses: map[string]*genai.GenerateContentResponse{
			"text-x":  textResponse(`{"description":"ok"}`),
			"image-x": imageResponse("image/webp", []byte("w")),
		},
	}
	g := NewWithClient(fake, Config{TextModel: "text-x", ImageModel: "image-x"}, zap.NewNop())

	got := g.Generate(context.Background(), "Title", "")

	assert.Equal(t, "ok", got.Description)
	assert.Equal(t, "data:image/webp;base64,dw==", got.ImageURL)
}
