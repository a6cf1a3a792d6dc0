package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"speech-relay/internal/app/speech"
)

type mockModels struct {
	mock.Mock
}

func (m *mockModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, model, contents, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func testRequest() *speech.Request {
	return &speech.Request{
		Config: speech.RecognitionConfig{Encoding: "MP3", SampleRateHertz: 8000, LanguageCode: "ml-IN"},
		URI:    "gs://users_drive_storage/audio/1700000000000_talk.mp3",
	}
}

func TestRecognizer_Recognize(t *testing.T) {
	models := &mockModels{}
	models.On("GenerateContent", mock.Anything, "gemini-2.5-flash", mock.MatchedBy(func(contents []*genai.Content) bool {
		if len(contents) != 1 || len(contents[0].Parts) != 2 {
			return false
		}
		file := contents[0].Parts[1].FileData
		return file != nil &&
			file.FileURI == "gs://users_drive_storage/audio/1700000000000_talk.mp3" &&
			file.MIMEType == "audio/mpeg"
	}), mock.Anything).Return(textResponse("  hello world\n"), nil).Once()

	r := newRecognizer(models, "gemini-2.5-flash", nil)
	result, err := r.Recognize(context.Background(), testRequest())
	require.NoError(t, err)

	require.Len(t, result.Segments, 1)
	assert.Equal(t, "hello world", result.Transcript())
	assert.Equal(t, "gemini", r.Name())
	models.AssertExpectations(t)
}

func TestRecognizer_EmptyAnswer(t *testing.T) {
	models := &mockModels{}
	models.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(textResponse("   "), nil)

	result, err := newRecognizer(models, "m", nil).Recognize(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Empty(t, result.Segments)
	assert.Equal(t, "", result.Transcript())
}

func TestRecognizer_Error(t *testing.T) {
	models := &mockModels{}
	models.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("quota exceeded"))

	_, err := newRecognizer(models, "m", nil).Recognize(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestPromptMentionsLanguage(t *testing.T) {
	assert.Contains(t, prompt("ml-IN"), "ml-IN")
}

func TestMimeType(t *testing.T) {
	assert.Equal(t, "audio/mpeg", mimeType("mp3"))
	assert.Equal(t, "audio/flac", mimeType("FLAC"))
	assert.Equal(t, "application/octet-stream", mimeType("AMR"))
}
