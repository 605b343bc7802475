package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/nordvig/healthapp-backend/internal/audio"
	"github.com/nordvig/healthapp-backend/internal/storage"
	"go.uber.org/zap"
)

type AudioHandler struct {
	speech    *audio.Service
	store     storage.Storage
	audioDir  string
	uploadDir string
	publicURL string
	logger    *zap.Logger
}

func NewAudioHandler(speech *audio.Service, store storage.Storage, audioDir, uploadDir, publicURL string, logger *zap.Logger) *AudioHandler {
	return &AudioHandler{
		speech:    speech,
		store:     store,
		audioDir:  audioDir,
		uploadDir: uploadDir,
		publicURL: publicURL,
		logger:    logger,
	}
}

type textToSpeechRequest struct {
	Text   string `json:"text" binding:"required"`
	UserID int64  `json:"user_id" binding:"required"`
}

func (h *AudioHandler) TextToSpeech(c *gin.Context) {
	var req textToSpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	fileName, err := h.speech.Synthesize(c.Request.Context(), req.Text, user.VoiceSetting, user.VoiceSpeedSetting)
	if err != nil {
		h.logger.Error("Failed to synthesize speech", zap.Error(err), zap.Int64("user_id", req.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"audio_url": fmt.Sprintf("%s/audio/%s", h.publicURL, fileName)})
}

func (h *AudioHandler) ServeAudio(c *gin.Context) {
	fileName := filepath.Base(c.Param("filename"))
	c.File(filepath.Join(h.audioDir, fileName))
}

func (h *AudioHandler) UploadVoiceMemo(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return
	}

	filePath := filepath.Join(h.uploadDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, filePath); err != nil {
		h.logger.Error("Failed to save upload", zap.Error(err), zap.String("file", file.Filename))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"file_url": filePath})
}

type transcribeRequest struct {
	FileURL string `json:"file_url" binding:"required"`
}

func (h *AudioHandler) TranscribeVoiceMemo(c *gin.Context) {
	var req transcribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transcript, err := h.speech.Transcribe(c.Request.Context(), req.FileURL)
	if err != nil {
		h.logger.Error("Failed to transcribe audio", zap.Error(err), zap.String("file", req.FileURL))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transcribe audio"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transcript": transcript})
}
