// Package gemini transcribes stored audio with a Gemini model on Vertex AI.
// The model reads the object straight from Cloud Storage, so the audio is
// passed by URI exactly like the Speech API backend.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/auth"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"speech-relay/internal/app/speech"
)

const providerName = "gemini"

// generator is satisfied by *genai.Models
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config selects the Vertex AI project and model
type Config struct {
	Project     string
	Location    string
	Model       string
	Credentials *auth.Credentials
}

// Recognizer implements speech.Recognizer with generateContent
type Recognizer struct {
	models generator
	model  string
	logger *zap.Logger
}

// New creates a Vertex AI backed genai client
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Recognizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:     genai.BackendVertexAI,
		Project:     cfg.Project,
		Location:    cfg.Location,
		Credentials: cfg.Credentials,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newRecognizer(client.Models, cfg.Model, logger), nil
}

func newRecognizer(models generator, model string, logger *zap.Logger) *Recognizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recognizer{
		models: models,
		model:  model,
		logger: logger.Named("speech.gemini"),
	}
}

// Name identifies the provider in logs and metrics
func (r *Recognizer) Name() string {
	return providerName
}

// Recognize asks the model for a verbatim transcript. The whole answer is
// returned as a single segment.
func (r *Recognizer) Recognize(ctx context.Context, req *speech.Request) (*speech.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: prompt(req.Config.LanguageCode)},
			{FileData: &genai.FileData{FileURI: req.URI, MIMEType: mimeType(req.Config.Encoding)}},
		},
	}}

	r.logger.Debug("Generating transcript",
		zap.String("model", r.model),
		zap.String("uri", req.URI),
		zap.String("language_code", req.Config.LanguageCode),
	)

	resp, err := r.models.GenerateContent(ctx, r.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return &speech.Result{}, nil
	}
	return &speech.Result{
		Segments: []speech.Segment{{Alternatives: []speech.Alternative{{Transcript: text}}}},
	}, nil
}

func prompt(languageCode string) string {
	return fmt.Sprintf("Transcribe this audio verbatim. The spoken language is %s. "+
		"Reply with the transcript text only, without timestamps, speaker labels or commentary.", languageCode)
}

func mimeType(encoding string) string {
	switch strings.ToUpper(encoding) {
	case "MP3":
		return "audio/mpeg"
	case "LINEAR16":
		return "audio/wav"
	case "FLAC":
		return "audio/flac"
	case "OGG_OPUS":
		return "audio/ogg"
	case "WEBM_OPUS":
		return "audio/webm"
	default:
		return "application/octet-stream"
	}
}
