// Package server exposes the content pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/valpere/edugen/internal/completion"
	"github.com/valpere/edugen/internal/content"
	"github.com/valpere/edugen/internal/export"
	"github.com/valpere/edugen/internal/logger"
	"github.com/valpere/edugen/internal/pipeline"
)

// Generator is the pipeline entry point the handlers call.
type Generator interface {
	Generate(ctx context.Context, grade int, topic string) (*content.Result, error)
}

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type GenerateRequest struct {
	Grade int    `json:"grade" binding:"required"`
	Topic string `json:"topic" binding:"required"`
}

type GenerateResponse struct {
	ID    string `json:"id"`
	Grade int    `json:"grade"`
	Topic string `json:"topic"`
	*content.Result
	FinalContent content.Record `json:"final_content"`
}

type Handler struct {
	gen Generator
	log *logger.Logger
}

func NewHandler(gen Generator, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{gen: gen, log: log}
}

// NewRouter wires the routes. allowedOrigins configures CORS; an empty
// list disables the middleware.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if len(allowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: allowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Content-Type"},
		}))
	}

	router.GET("/healthz", h.HealthCheck)

	api := router.Group("/api/v1")
	{
		api.POST("/content", h.GenerateContent)
		api.POST("/content/export", h.ExportContent)
	}

	return router
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GenerateContent runs the pipeline and returns every stage's output.
func (h *Handler) GenerateContent(c *gin.Context) {
	req, res, ok := h.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, GenerateResponse{
		ID:           uuid.New().String(),
		Grade:        req.Grade,
		Topic:        req.Topic,
		Result:       res,
		FinalContent: res.Final(),
	})
}

// ExportContent runs the pipeline and returns the final content as a
// download in the requested format.
func (h *Handler) ExportContent(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", "json"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_format", err)
		return
	}

	req, res, ok := h.run(c)
	if !ok {
		return
	}

	body, err := export.Render(res, req.Grade, req.Topic, format)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "export_failed", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(req.Grade, req.Topic, format)+`"`)
	c.Data(http.StatusOK, format.ContentType(), body)
}

func (h *Handler) run(c *gin.Context) (GenerateRequest, *content.Result, bool) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return req, nil, false
	}
	req.Topic = strings.TrimSpace(req.Topic)

	res, err := h.gen.Generate(c.Request.Context(), req.Grade, req.Topic)
	if err != nil {
		var te *completion.TransportError
		switch {
		case errors.Is(err, pipeline.ErrInvalidGrade), errors.Is(err, pipeline.ErrEmptyTopic):
			respondError(c, http.StatusBadRequest, "invalid_request", err)
		case errors.As(err, &te):
			h.log.Warn("completion backend failed", "service", te.Service, "status", te.StatusCode, "error", err)
			respondError(c, http.StatusBadGateway, "backend_unavailable", err)
		default:
			h.log.Error("pipeline failed", "error", err)
			respondError(c, http.StatusInternalServerError, "internal", err)
		}
		return req, nil, false
	}

	h.log.Info("content generated", "grade", req.Grade, "topic", req.Topic, "refined", res.Refined(), "status", res.FinalVerdict().Status)
	return req, res, true
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}
