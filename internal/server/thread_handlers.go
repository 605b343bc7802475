package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nordvig/healthapp-backend/internal/storage"
	"go.uber.org/zap"
)

type ThreadHandler struct {
	store  storage.Storage
	logger *zap.Logger
}

func NewThreadHandler(store storage.Storage, logger *zap.Logger) *ThreadHandler {
	return &ThreadHandler{store: store, logger: logger}
}

func (h *ThreadHandler) GetUserThreads(c *gin.Context) {
	var req userIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	threads, err := h.store.ListByUser(c.Request.Context(), req.UserID)
	if err != nil {
		h.logger.Error("Failed to list threads", zap.Error(err), zap.Int64("user_id", req.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	list := make([]gin.H, 0, len(threads))
	for _, t := range threads {
		title := t.Title
		if title == "" {
			title = "Untitled Thread"
		}
		list = append(list, gin.H{
			"thread_id": t.RemoteID,
			"date":      t.CreatedAt.Format("2006-01-02"),
			"title":     title,
		})
	}
	c.JSON(http.StatusOK, gin.H{"threads": list})
}

func (h *ThreadHandler) GetUserThreadSessions(c *gin.Context) {
	var req userIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	threads, err := h.store.ListByUser(c.Request.Context(), req.UserID)
	if err != nil {
		h.logger.Error("Failed to list threads", zap.Error(err), zap.Int64("user_id", req.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sessions := make([]gin.H, 0, len(threads))
	for _, t := range threads {
		sessions = append(sessions, gin.H{"thread_id": t.RemoteID})
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *ThreadHandler) CleanupEmptyThreads(c *gin.Context) {
	var req userIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deleted, err := h.store.DeleteUntitled(c.Request.Context(), req.UserID)
	if err != nil {
		h.logger.Error("Failed to clean up threads", zap.Error(err), zap.Int64("user_id", req.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("Cleaned up empty threads",
		zap.Int64("user_id", req.UserID),
		zap.Int64("deleted", deleted))
	c.JSON(http.StatusOK, gin.H{"message": "Empty threads cleaned up"})
}

type updateTitleRequest struct {
	ThreadID string `json:"thread_id" binding:"required"`
	Title    string `json:"title" binding:"required"`
}

func (h *ThreadHandler) UpdateThreadTitle(c *gin.Context) {
	var req updateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.UpdateTitle(c.Request.Context(), req.ThreadID, req.Title); err != nil {
		h.respondThreadError(c, err, req.ThreadID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Thread title updated successfully"})
}

type threadIDRequest struct {
	ThreadID string `json:"thread_id" binding:"required"`
}

func (h *ThreadHandler) DeleteThread(c *gin.Context) {
	var req threadIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Delete(c.Request.Context(), req.ThreadID); err != nil {
		h.respondThreadError(c, err, req.ThreadID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Thread deleted successfully"})
}

func (h *ThreadHandler) respondThreadError(c *gin.Context, err error, threadID string) {
	if errors.Is(err, storage.ErrThreadNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found"})
		return
	}
	h.logger.Error("Thread operation failed", zap.Error(err), zap.String("thread_id", threadID))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
