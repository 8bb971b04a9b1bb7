package repositories

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"weather-widget/config"
	"weather-widget/internal/models"
	"weather-widget/pkg/logger"
)

const (
	GeminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	GeminiDefaultModel = "gemini-3-pro-image-preview"
)

// GeminiRepository calls the generateContent endpoint of an image model.
// Calls are never retried; a failed generation is reported to the caller.
type GeminiRepository struct {
	client *resty.Client
	model  string
	l      *logger.Logger
}

func NewGeminiRepository(cfg config.ImageConfig, l *logger.Logger, client *resty.Client) (*GeminiRepository, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		l.Warning("image api key is empty, generation will fail upstream")
	}
	if client == nil {
		client = resty.New()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = GeminiBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = GeminiDefaultModel
	}

	client.
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("x-goog-api-key", cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		l.Debug("received image api response", map[string]any{
			"status":   resp.StatusCode(),
			"duration": resp.Time().String(),
			"bytes":    len(resp.Body()),
		})
		return nil
	})

	return &GeminiRepository{client: client, model: model, l: l}, nil
}

func (g *GeminiRepository) Name() string {
	return "gemini"
}

type geminiPart struct {
	Text       string        `json:"text,omitempty"`
	InlineData *geminiInline `json:"inlineData,omitempty"`
}

type geminiInline struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"responseModalities"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate returns the first inline image of the first candidate.
func (g *GeminiRepository) Generate(ctx context.Context, prompt string) (models.GeneratedImage, error) {
	body := generateRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}
	body.GenerationConfig.ResponseModalities = []string{"TEXT", "IMAGE"}

	var (
		result  generateResponse
		failure geminiError
	)

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&failure).
		SetPathParam("model", g.model).
		Post("/models/{model}:generateContent")
	if err != nil {
		return models.GeneratedImage{}, errors.Wrapf(models.ErrGeneration, "request failed: %v", err)
	}
	if !resp.IsSuccess() {
		msg := failure.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		return models.GeneratedImage{}, fmt.Errorf("%w: status %d: %s", models.ErrGeneration, resp.StatusCode(), msg)
	}

	if len(result.Candidates) > 0 {
		for _, part := range result.Candidates[0].Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return models.GeneratedImage{}, errors.Wrapf(models.ErrGeneration, "decode inline data: %v", err)
			}
			return models.GeneratedImage{Data: data, MIMEType: part.InlineData.MimeType}, nil
		}
	}

	return models.GeneratedImage{}, errors.Wrap(models.ErrGeneration, "no image data found in response candidates")
}
