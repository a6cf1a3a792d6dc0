package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// RecognitionConfig is the audio profile sent with every request.
type RecognitionConfig struct {
	Encoding        string `json:"encoding"`
	SampleRateHertz int32  `json:"sample_rate_hertz"`
	LanguageCode    string `json:"language_code"`
}

// Request asks a recognizer to transcribe audio that already lives in a blob
// store. URI is the store's reference, e.g. gs://bucket/audio/1700000000000_a.mp3.
type Request struct {
	Config RecognitionConfig
	URI    string
}

// Alternative is one candidate transcript for a segment
type Alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float32 `json:"confidence,omitempty"`
}

// Segment is a consecutive portion of the audio. Alternatives are ordered
// best first.
type Segment struct {
	Alternatives []Alternative `json:"alternatives"`
}

// Result is the recognizer's answer in segment order
type Result struct {
	Segments []Segment `json:"segments"`
}

// Transcript joins the best alternative of every segment with a single
// space. Segments without alternatives are skipped.
func (r *Result) Transcript() string {
	if r == nil {
		return ""
	}
	texts := lo.FilterMap(r.Segments, func(s Segment, _ int) (string, bool) {
		if len(s.Alternatives) == 0 {
			return "", false
		}
		return s.Alternatives[0].Transcript, true
	})
	return strings.Join(texts, " ")
}

// Recognizer transcribes stored audio by reference
type Recognizer interface {
	Recognize(ctx context.Context, req *Request) (*Result, error)
	Name() string
}

// Closer is implemented by recognizers that hold network clients
type Closer interface {
	Close() error
}

// Validate rejects requests no backend could serve
func (r *Request) Validate() error {
	if r.URI == "" {
		return fmt.Errorf("audio URI is required")
	}
	if r.Config.LanguageCode == "" {
		return fmt.Errorf("language code is required")
	}
	return nil
}
