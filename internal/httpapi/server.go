// Package httpapi exposes the webhook and owner-query HTTP surface.
package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tomu1969/pai-personal-ai-sub004/internal/core"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/search"
)

// Server receives inbound gateway webhooks and owner history queries.
type Server struct {
	service    *core.AssistantService
	logger     *zap.Logger
	listenAddr string
	corsOrigin []string
	httpServer *http.Server
}

// NewServer creates the HTTP server.
func NewServer(service *core.AssistantService, logger *zap.Logger, listenAddr string, corsOrigins []string) *Server {
	return &Server{
		service:    service,
		logger:     logger,
		listenAddr: listenAddr,
		corsOrigin: corsOrigins,
	}
}

// webhookPayload is the inbound message shape posted by the gateway.
type webhookPayload struct {
	ID        string `json:"id"`
	ChatID    string `json:"chatId" binding:"required"`
	From      string `json:"from"`
	PushName  string `json:"pushName"`
	Body      string `json:"body"`
	FromMe    bool   `json:"fromMe"`
	Timestamp int64  `json:"timestamp"`
}

// Start begins serving in a background goroutine.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  s.corsOrigin,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	router.GET("/healthz", s.handleHealth)
	router.POST("/webhook", s.handleWebhook)
	router.GET("/api/search", s.handleSearch)

	s.httpServer = &http.Server{
		Addr:         s.listenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("HTTP server starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleWebhook runs an inbound message through the pipeline and echoes the
// analysis back to the gateway.
func (s *Server) handleWebhook(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := &core.Message{
		ID:         payload.ID,
		ChatID:     payload.ChatID,
		Sender:     payload.From,
		PushName:   payload.PushName,
		Body:       payload.Body,
		FromMe:     payload.FromMe,
		ReceivedAt: time.Now(),
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if payload.Timestamp > 0 {
		msg.ReceivedAt = time.Unix(payload.Timestamp, 0)
	}

	result := s.service.HandleInbound(c.Request.Context(), msg)
	c.JSON(http.StatusOK, gin.H{
		"message_id": msg.ID,
		"analysis":   result.Analysis,
		"degraded":   result.Degraded,
	})
}

// handleSearch validates an owner history query and runs it when valid.
func (s *Server) handleSearch(c *gin.Context) {
	params := search.Params{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		StartTime: c.Query("start_time"),
		EndTime:   c.Query("end_time"),
		Sender:    c.Query("sender"),
	}
	if raw := c.Query("keywords"); raw != "" {
		params.Keywords = strings.Split(raw, ",")
	}
	if raw := c.Query("limit"); raw != "" {
		// Non-numeric limits become -1 so the normalizer reports the
		// default-substitution warning instead of silently ignoring them.
		if limit, err := strconv.Atoi(raw); err == nil {
			params.Limit = limit
		} else {
			params.Limit = -1
		}
	}

	result, messages, err := s.service.SearchHistory(c.Request.Context(), params)
	if err != nil {
		s.logger.Error("History search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	if !result.Valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid":    false,
			"errors":   result.Errors,
			"warnings": result.Warnings,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"warnings": result.Warnings,
		"query":    result.Query,
		"messages": messages,
		"total":    len(messages),
	})
}
