package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/agenthands/ragsearch/internal/config"
	"github.com/agenthands/ragsearch/internal/core"
	"github.com/agenthands/ragsearch/internal/core/model"
)

const (
	msgAccessDenied  = "Access Denied"
	msgInvalidParams = "invalid params"
)

// Searcher runs one rag search for a caller.
type Searcher interface {
	Run(ctx context.Context, caller string, req model.RagSearchRequest) (*model.SearchData, error)
}

type Server struct {
	Searcher   Searcher
	AuthAPIKey string
	Logger     zerolog.Logger
}

func NewServer(cfg config.ServerConfig, searcher Searcher, logger zerolog.Logger) *Server {
	return &Server{
		Searcher:   searcher,
		AuthAPIKey: cfg.AuthAPIKey,
		Logger:     logger,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.Health)
	r.POST("/rag-search", s.requireAuth(), s.RagSearch)

	return r
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to ten seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info().Str("addr", addr).Msg("Starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.Logger.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RagSearch answers with HTTP 200 in every case; failures travel in the
// error envelope.
func (s *Server) RagSearch(c *gin.Context) {
	log := zerolog.Ctx(c.Request.Context())

	req := model.NewRagSearchRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Failed to decode request")
		c.JSON(http.StatusOK, model.RespErr(msgInvalidParams))
		return
	}

	data, err := s.Searcher.Run(c.Request.Context(), c.ClientIP(), req)
	if err != nil {
		c.JSON(http.StatusOK, model.RespErr(errorMessage(err)))
		if !errors.Is(err, core.ErrInvalidParams) {
			log.Error().Err(err).Msg("Rag search failed")
		}
		return
	}

	c.JSON(http.StatusOK, model.RespData(data))
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidParams):
		return msgInvalidParams
	case errors.Is(err, core.ErrSearchFailed):
		return err.Error()
	default:
		return "rag search failed: " + err.Error()
	}
}
