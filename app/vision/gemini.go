// Package vision reads the value shown on a glucose meter photo.
package vision

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"
)

const (
	DefaultModel = "gemini-2.5-flash-lite"

	// Values outside this range are treated as misreads.
	MinGlucoseValue = 20
	MaxGlucoseValue = 600
)

const meterPrompt = `This is a photo of a glucose meter display. Read the main glucose value shown on the screen. ` +
	`Reply with ONLY the number (for example "298"). If you cannot read it, reply "null".`

// GeminiReader asks a Gemini model for the number on a meter display.
type GeminiReader struct {
	client *genai.Client
	model  string
}

func NewGeminiReader(ctx context.Context, apiKey, model string) (*GeminiReader, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiReader{client: client, model: model}, nil
}

// DetectGlucoseValue returns ok=false when the model could not read a plausible value.
func (r *GeminiReader) DetectGlucoseValue(ctx context.Context, image []byte, mimeType string) (int, bool, error) {
	if len(image) == 0 {
		return 0, false, nil
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(meterPrompt),
		}, genai.RoleUser),
	}

	result, err := r.client.Models.GenerateContent(ctx, r.model, contents, nil)
	if err != nil {
		return 0, false, fmt.Errorf("gemini generate failed: %w", err)
	}

	value, ok := ParseGlucoseValue(result.Text())
	return value, ok, nil
}

// ParseGlucoseValue reads the leading integer of a model reply and accepts it only when it
// falls in [MinGlucoseValue, MaxGlucoseValue].
func ParseGlucoseValue(text string) (int, bool) {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, `"'`)

	end := 0
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	value, err := strconv.Atoi(text[:end])
	if err != nil {
		return 0, false
	}
	if value < MinGlucoseValue || value > MaxGlucoseValue {
		return 0, false
	}
	return value, true
}
