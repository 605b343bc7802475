package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nordvig/healthapp-backend/internal/models"
	"github.com/nordvig/healthapp-backend/internal/storage"
	"go.uber.org/zap"
)

type UserHandler struct {
	store  storage.Storage
	logger *zap.Logger
}

func NewUserHandler(store storage.Storage, logger *zap.Logger) *UserHandler {
	return &UserHandler{store: store, logger: logger}
}

type updateLanguageRequest struct {
	UserID   int64  `json:"user_id" binding:"required"`
	Language string `json:"language" binding:"required"`
}

func (h *UserHandler) UpdateLanguage(c *gin.Context) {
	var req updateLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.UpdateLocale(c.Request.Context(), req.UserID, req.Language); err != nil {
		h.respondUserError(c, err, req.UserID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Language updated successfully"})
}

type userIDRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

func (h *UserHandler) GetLanguage(c *gin.Context) {
	var req userIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), req.UserID)
	if err != nil {
		h.respondUserError(c, err, req.UserID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": user.Locale})
}

type updateUserVersionRequest struct {
	UserID      int64 `json:"user_id" binding:"required"`
	UserVersion int   `json:"user_version" binding:"required"`
}

func (h *UserHandler) UpdateUserVersion(c *gin.Context) {
	var req updateUserVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.store.UpdateUserVersion(c.Request.Context(), req.UserID, req.UserVersion); err != nil {
		h.respondUserError(c, err, req.UserID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User version updated successfully"})
}

type updateSettingsRequest struct {
	UserID            int64   `json:"user_id" binding:"required"`
	Language          string  `json:"language"`
	DisplaySetting    int     `json:"display_setting"`
	VoiceSetting      int     `json:"voice_setting"`
	VoiceSpeedSetting float64 `json:"voice_speed_setting"`
	AutoplayAudio     bool    `json:"autoplaybackaudio_setting"`
}

func (h *UserHandler) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := &models.User{
		ID:                req.UserID,
		Locale:            req.Language,
		DisplaySetting:    req.DisplaySetting,
		VoiceSetting:      req.VoiceSetting,
		VoiceSpeedSetting: req.VoiceSpeedSetting,
		AutoplayAudio:     req.AutoplayAudio,
	}
	if err := h.store.UpdateSettings(c.Request.Context(), user); err != nil {
		h.respondUserError(c, err, req.UserID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully"})
}

func (h *UserHandler) GetSettings(c *gin.Context) {
	var req userIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), req.UserID)
	if err != nil {
		h.respondUserError(c, err, req.UserID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"language":                  user.Locale,
		"display_setting":           user.DisplaySetting,
		"voice_setting":             user.VoiceSetting,
		"voice_speed_setting":       user.VoiceSpeedSetting,
		"autoplaybackaudio_setting": user.AutoplayAudio,
	})
}

func (h *UserHandler) respondUserError(c *gin.Context, err error, userID int64) {
	if errors.Is(err, storage.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	h.logger.Error("User operation failed", zap.Error(err), zap.Int64("user_id", userID))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
