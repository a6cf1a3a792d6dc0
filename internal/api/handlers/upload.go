package handlers

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"speech-relay/internal/api/errors"
	"speech-relay/internal/api/middleware"
	"speech-relay/internal/app/relay"
)

// Transcriber turns a multipart upload into a transcript
type Transcriber interface {
	Process(ctx context.Context, mr *multipart.Reader) (*relay.Transcription, error)
}

// UploadResponse is the success body of POST /api/upload
type UploadResponse struct {
	Transcript string `json:"transcript" example:"hello world"`
}

// UploadHandler handles the audio upload endpoint
type UploadHandler struct {
	transcriber Transcriber
	logger      *zap.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(transcriber Transcriber, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		transcriber: transcriber,
		logger:      logger.Named("upload"),
	}
}

// Upload handles /api/upload
// Streams the audio part to the blob store and returns its transcript
//
// @Summary Transcribe an uploaded audio file
// @Description Accepts one multipart/form-data file in the "audio" field, stores it in the blob store and returns the speech service's transcript
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "MP3 audio file"
// @Success 200 {object} UploadResponse "Transcript"
// @Failure 400 {object} errors.APIError "No audio file uploaded"
// @Failure 405 "Method not allowed"
// @Failure 413 {object} errors.APIError "Audio file too large"
// @Failure 500 {object} errors.APIError "Error processing audio"
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.AbortWithStatus(http.StatusMethodNotAllowed)
		return
	}

	mr, err := c.Request.MultipartReader()
	if err != nil {
		h.logger.Warn("Rejected non-multipart upload",
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.String("content_type", c.ContentType()),
			zap.Error(err),
		)
		middleware.HandleError(c, errors.NewBadRequestError(errors.MessageNoAudio))
		return
	}

	result, err := h.transcriber.Process(c.Request.Context(), mr)
	if err != nil {
		fields := []zap.Field{zap.String("request_id", c.GetString(middleware.RequestIDKey)), zap.Error(err)}
		if errors.FromPipeline(err).HTTPStatus() >= http.StatusInternalServerError {
			h.logger.Error("Error processing audio", fields...)
		} else {
			h.logger.Warn("Rejected upload", fields...)
		}
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, UploadResponse{Transcript: result.Transcript})
}
