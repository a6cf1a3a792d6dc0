package testutil

import (
	"bytes"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"

	"speech-relay/internal/app/speech"
)

// SampleMP3 is not decodable audio; the relay never inspects the bytes.
var SampleMP3 = []byte("ID3\x03\x00\x00\x00\x00\x00\x00fake-mp3-frames")

// Part is one multipart section
type Part struct {
	Field    string
	Filename string
	Content  []byte
}

// FilePart describes a file field
func FilePart(field, filename string, content []byte) Part {
	return Part{Field: field, Filename: filename, Content: content}
}

// FieldPart describes a plain form value
func FieldPart(field, value string) Part {
	return Part{Field: field, Content: []byte(value)}
}

// MultipartBody encodes parts and returns the body and its Content-Type
func MultipartBody(t testing.TB, parts ...Part) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, p := range parts {
		if p.Filename != "" {
			fw, err := w.CreateFormFile(p.Field, p.Filename)
			require.NoError(t, err)
			_, err = fw.Write(p.Content)
			require.NoError(t, err)
			continue
		}
		require.NoError(t, w.WriteField(p.Field, string(p.Content)))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

// MultipartReader wraps MultipartBody in a reader ready for the relay
func MultipartReader(t testing.TB, parts ...Part) *multipart.Reader {
	t.Helper()
	body, contentType := MultipartBody(t, parts...)
	_, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	return multipart.NewReader(body, params["boundary"])
}

// SegmentsResult builds a result with one single-alternative segment per text
func SegmentsResult(texts ...string) *speech.Result {
	result := &speech.Result{Segments: make([]speech.Segment, 0, len(texts))}
	for _, text := range texts {
		result.Segments = append(result.Segments, speech.Segment{
			Alternatives: []speech.Alternative{{Transcript: text, Confidence: 0.9}},
		})
	}
	return result
}
