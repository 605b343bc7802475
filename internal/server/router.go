package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	CORSOrigin    string
	AuthHandler   *AuthHandler
	UserHandler   *UserHandler
	ThreadHandler *ThreadHandler
	ChatHandler   *ChatHandler
	AudioHandler  *AudioHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if cfg.CORSOrigin != "" {
		corsConfig.AllowOrigins = []string{cfg.CORSOrigin}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = []string{"Authorization", "Content-Type", "X-Requested-With"}
	router.Use(cors.New(corsConfig))

	router.GET("/healthcheck", HealthCheck)

	// Account and session
	router.POST("/create_user", cfg.AuthHandler.CreateUser)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/verify_token", cfg.AuthHandler.VerifyToken)

	// Preferences
	router.POST("/update_language", cfg.UserHandler.UpdateLanguage)
	router.POST("/get_language", cfg.UserHandler.GetLanguage)
	router.POST("/update_user_version", cfg.UserHandler.UpdateUserVersion)
	router.POST("/update_user_settings", cfg.UserHandler.UpdateSettings)
	router.POST("/get_user_settings", cfg.UserHandler.GetSettings)

	// Thread records
	router.POST("/get_user_threads", cfg.ThreadHandler.GetUserThreads)
	router.POST("/get_user_thead_sessions", cfg.ThreadHandler.GetUserThreadSessions)
	router.POST("/cleanup_empty_threads", cfg.ThreadHandler.CleanupEmptyThreads)
	router.POST("/update_thread_title", cfg.ThreadHandler.UpdateThreadTitle)
	router.POST("/delete_thread", cfg.ThreadHandler.DeleteThread)

	// Conversation
	router.POST("/get_or_create_thread", cfg.ChatHandler.GetOrCreateThread)
	router.POST("/create_new_thread", cfg.ChatHandler.CreateNewThread)
	router.POST("/generate_thread_title", cfg.ChatHandler.GenerateThreadTitle)
	router.POST("/get_thread_messages", cfg.ChatHandler.GetThreadMessages)
	router.GET("/thread_initial", cfg.ChatHandler.ThreadInitial)
	router.POST("/thread_continue", cfg.ChatHandler.ThreadContinue)

	// Audio
	router.POST("/text_to_speech", cfg.AudioHandler.TextToSpeech)
	router.GET("/audio/:filename", cfg.AudioHandler.ServeAudio)
	router.POST("/upload_voice_memo", cfg.AudioHandler.UploadVoiceMemo)
	router.POST("/transcribe_voice_memo", cfg.AudioHandler.TranscribeVoiceMemo)

	return router
}

func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
