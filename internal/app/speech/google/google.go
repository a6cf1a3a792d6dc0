// Package google recognizes audio stored in Cloud Storage with the Cloud
// Speech-to-Text v1 API.
package google

import (
	"context"
	"fmt"
	"strings"

	speechapi "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"speech-relay/internal/app/speech"
)

const providerName = "google"

// api is the part of the generated client the recognizer uses
type api interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)
	LongRunningRecognize(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error)
	Close() error
}

// Recognizer implements speech.Recognizer on Cloud Speech
type Recognizer struct {
	client      api
	longRunning bool
	logger      *zap.Logger
}

// New dials the Speech API. When longRunning is set, requests go through
// LongRunningRecognize, which accepts audio longer than one minute.
func New(ctx context.Context, longRunning bool, logger *zap.Logger, opts ...option.ClientOption) (*Recognizer, error) {
	client, err := speechapi.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return newRecognizer(&clientAPI{client: client}, longRunning, logger), nil
}

func newRecognizer(client api, longRunning bool, logger *zap.Logger) *Recognizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recognizer{
		client:      client,
		longRunning: longRunning,
		logger:      logger.Named("speech.google"),
	}
}

// Name identifies the provider in logs and metrics
func (r *Recognizer) Name() string {
	return providerName
}

// Recognize sends the reference to the stored audio and waits for the full result
func (r *Recognizer) Recognize(ctx context.Context, req *speech.Request) (*speech.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cfg, err := toRecognitionConfig(req.Config)
	if err != nil {
		return nil, err
	}
	audio := &speechpb.RecognitionAudio{
		AudioSource: &speechpb.RecognitionAudio_Uri{Uri: req.URI},
	}

	r.logger.Debug("Recognizing audio",
		zap.String("uri", req.URI),
		zap.String("encoding", req.Config.Encoding),
		zap.Int32("sample_rate_hertz", req.Config.SampleRateHertz),
		zap.String("language_code", req.Config.LanguageCode),
		zap.Bool("long_running", r.longRunning),
	)

	var results []*speechpb.SpeechRecognitionResult
	if r.longRunning {
		resp, err := r.client.LongRunningRecognize(ctx, &speechpb.LongRunningRecognizeRequest{Config: cfg, Audio: audio})
		if err != nil {
			return nil, fmt.Errorf("long running recognize: %w", err)
		}
		results = resp.GetResults()
	} else {
		resp, err := r.client.Recognize(ctx, &speechpb.RecognizeRequest{Config: cfg, Audio: audio})
		if err != nil {
			return nil, fmt.Errorf("recognize: %w", err)
		}
		results = resp.GetResults()
	}

	return toResult(results), nil
}

// Close releases the gRPC connection
func (r *Recognizer) Close() error {
	return r.client.Close()
}

func toRecognitionConfig(cfg speech.RecognitionConfig) (*speechpb.RecognitionConfig, error) {
	encoding, ok := speechpb.RecognitionConfig_AudioEncoding_value[strings.ToUpper(cfg.Encoding)]
	if !ok {
		return nil, fmt.Errorf("unsupported audio encoding %q", cfg.Encoding)
	}
	return &speechpb.RecognitionConfig{
		Encoding:        speechpb.RecognitionConfig_AudioEncoding(encoding),
		SampleRateHertz: cfg.SampleRateHertz,
		LanguageCode:    cfg.LanguageCode,
	}, nil
}

func toResult(results []*speechpb.SpeechRecognitionResult) *speech.Result {
	return &speech.Result{
		Segments: lo.Map(results, func(res *speechpb.SpeechRecognitionResult, _ int) speech.Segment {
			return speech.Segment{
				Alternatives: lo.Map(res.GetAlternatives(), func(alt *speechpb.SpeechRecognitionAlternative, _ int) speech.Alternative {
					return speech.Alternative{
						Transcript: alt.GetTranscript(),
						Confidence: alt.GetConfidence(),
					}
				}),
			}
		}),
	}
}

// clientAPI adapts the generated client, hiding the long-running operation handle
type clientAPI struct {
	client *speechapi.Client
}

func (c *clientAPI) Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	return c.client.Recognize(ctx, req)
}

func (c *clientAPI) LongRunningRecognize(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error) {
	op, err := c.client.LongRunningRecognize(ctx, req)
	if err != nil {
		return nil, err
	}
	return op.Wait(ctx)
}

func (c *clientAPI) Close() error {
	return c.client.Close()
}
