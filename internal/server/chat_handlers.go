package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nordvig/healthapp-backend/internal/assistant"
	"github.com/nordvig/healthapp-backend/internal/models"
	"github.com/nordvig/healthapp-backend/internal/storage"
	"go.uber.org/zap"
)

type ChatHandler struct {
	orchestrator *assistant.Orchestrator
	client       assistant.Client
	titles       *assistant.TitleGenerator
	store        storage.Storage
	logger       *zap.Logger
}

func NewChatHandler(
	orchestrator *assistant.Orchestrator,
	client assistant.Client,
	titles *assistant.TitleGenerator,
	store storage.Storage,
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		orchestrator: orchestrator,
		client:       client,
		titles:       titles,
		store:        store,
		logger:       logger,
	}
}

func (h *ChatHandler) GetOrCreateThread(c *gin.Context) {
	var req userIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	threadID, created, err := h.orchestrator.GetOrCreateSession(c.Request.Context(), req.UserID, assistant.DefaultCategory)
	if err != nil {
		h.logger.Error("Failed to resolve session", zap.Error(err), zap.Int64("user_id", req.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"thread_id": threadID, "created": created})
}

func (h *ChatHandler) CreateNewThread(c *gin.Context) {
	var req userIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	remoteID, err := h.client.CreateThread(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to create remote thread", zap.Error(err), zap.Int64("user_id", req.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	thread := &models.Thread{
		UserID:   req.UserID,
		RemoteID: remoteID,
		Category: int(assistant.DefaultCategory),
	}
	if err := h.store.Insert(c.Request.Context(), thread); err != nil {
		h.logger.Error("Failed to persist thread", zap.Error(err), zap.String("thread_id", remoteID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"thread_id": remoteID})
}

type generateTitleRequest struct {
	ThreadID  string `json:"thread_id" binding:"required"`
	UserInput string `json:"user_input" binding:"required"`
}

func (h *ChatHandler) GenerateThreadTitle(c *gin.Context) {
	var req generateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := h.titles.GenerateTitle(c.Request.Context(), req.ThreadID, req.UserInput)
	if err != nil {
		if errors.Is(err, storage.ErrThreadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thread title updated successfully", "title": title})
}

func (h *ChatHandler) GetThreadMessages(c *gin.Context) {
	var req threadIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	messages, err := h.client.ListMessages(c.Request.Context(), req.ThreadID)
	if err != nil {
		h.logger.Error("Failed to list thread messages", zap.Error(err), zap.String("thread_id", req.ThreadID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *ChatHandler) ThreadInitial(c *gin.Context) {
	threadID := c.Query("thread_id")
	userID, _ := strconv.ParseInt(c.Query("user_id"), 10, 64)

	greeting, err := h.orchestrator.PostInitialGreeting(c.Request.Context(), threadID, userID, assistant.DefaultCategory)
	if err != nil {
		if errors.Is(err, assistant.ErrMissingThreadID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to post initial greeting",
			zap.Error(err),
			zap.String("thread_id", threadID),
			zap.Int64("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": greeting, "thread_id": threadID})
}

type continueThreadRequest struct {
	ThreadID     string `json:"thread_id" binding:"required"`
	UserInput    string `json:"user_input" binding:"required"`
	ExtraContext string `json:"extra_context"`
}

func (h *ChatHandler) ThreadContinue(c *gin.Context) {
	var req continueThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.orchestrator.SubmitTurn(c.Request.Context(), req.ThreadID, req.UserInput, req.ExtraContext)
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case errors.Is(err, assistant.ErrAssistantNotConfigured):
			c.JSON(http.StatusNotFound, gin.H{"error": "Assistant ID not found for the thread"})
		case assistant.IsTimeout(err):
			// Retryable: the client may resubmit the same input against the
			// same thread.
			c.JSON(http.StatusOK, gin.H{
				"error":     "Run did not complete. Please try again later.",
				"thread_id": req.ThreadID,
			})
		default:
			h.logger.Error("Turn failed", zap.Error(err), zap.String("thread_id", req.ThreadID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": reply, "thread_id": req.ThreadID})
}
