package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/scythe504/guessit-backend/internal/config"
	"github.com/scythe504/guessit-backend/internal/database"
	"github.com/scythe504/guessit-backend/internal/game"
	"github.com/scythe504/guessit-backend/internal/words"
)

const (
	// Per client, shared by HTTP actions and socket messages.
	actionRate  = rate.Limit(5)
	actionBurst = 10
	limiterIdle = 5 * time.Minute
)

type Server struct {
	port       int
	corsOrigin string
	graceSecs  int

	registry *game.Registry
	db       database.Service
	gatherer prometheus.Gatherer
	filter   words.Filter
	limiters *clientLimiters
	upgrader websocket.Upgrader
}

// New wires the request layer. db may be nil when no database is
// configured.
func New(cfg config.Config, registry *game.Registry, db database.Service, gatherer prometheus.Gatherer) *Server {
	port, _ := strconv.Atoi(cfg.Port)
	s := &Server{
		port:       port,
		corsOrigin: cfg.CORSOrigin,
		graceSecs:  cfg.RoomGraceSeconds,
		registry:   registry,
		db:         db,
		gatherer:   gatherer,
		filter:     words.AllowAll{},
		limiters:   newClientLimiters(actionRate, actionBurst, limiterIdle),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func NewServer(cfg config.Config, registry *game.Registry, db database.Service, gatherer prometheus.Gatherer) *http.Server {
	s := New(cfg, registry, db, gatherer)

	// Declare Server config
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if s.corsOrigin == "" || s.corsOrigin == "*" {
		return true
	}
	return r.Header.Get("Origin") == s.corsOrigin
}
