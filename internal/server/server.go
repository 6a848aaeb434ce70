package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"leadrouter/internal/bootstrap"
	"leadrouter/internal/campaign"
	"leadrouter/internal/config"
	"leadrouter/internal/database"
	"leadrouter/internal/ledger"
)

type Server struct {
	port int

	db       database.Service
	assigner *campaign.Service
	ledger   *ledger.Recorder
	log      *zap.Logger

	corsOrigins []string
}

func NewServer(cfg *config.Config, deps *bootstrap.Deps, logger *zap.Logger) *http.Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	recorder := deps.Ledger
	if recorder == nil {
		recorder = ledger.NewRecorder(deps.DB, cfg.QueueDir, logger)
	}
	NewServer := &Server{
		port: cfg.Port,

		db:       deps.DB,
		assigner: deps.Assigner,
		ledger:   recorder,
		log:      logger,

		corsOrigins: cfg.CORSOrigins,
	}

	NewServer.flushQueueOnStartup()

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", NewServer.port),
		Handler:      NewServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}

func (s *Server) flushQueueOnStartup() {
	if s.ledger == nil {
		return
	}

	flushed, err := s.ledger.FlushQueue(context.Background())
	if err != nil {
		s.logger().Warn("queue startup flush failed", zap.String("queue_dir", s.ledger.QueueDir()), zap.Error(err))
		return
	}
	if flushed > 0 {
		s.logger().Info("queue startup flush imported entries", zap.Int("entries", flushed))
	}
}

func (s *Server) logger() *zap.Logger {
	if s.log == nil {
		return zap.NewNop()
	}
	return s.log
}
