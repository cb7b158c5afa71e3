package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/renderer"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/tracer"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	defaultPingInterval = 30 * time.Second
	writeWait           = 10 * time.Second
)

// Preview server options.
type Options struct {
	// Frame dims. Zero values select the scene camera dims.
	FrameW uint32
	FrameH uint32

	// Bounce budget; nil selects the scene depth.
	MaxDepth *int

	// Number of tracers per session; zero selects one per cpu.
	NumTracers int

	// Block scheduler name ("naive" or "perfect").
	Scheduler string

	// Interval between keep-alive pings.
	PingInterval time.Duration
}

// Server streams progressive renders of a scene to websocket clients. Each
// connection gets its own render session.
type Server struct {
	logger log.Logger

	scene    *scene.Scene
	opts     Options
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]context.CancelFunc
}

// Create a new preview server for a scene.
func New(sc *scene.Scene, opts Options) (*Server, error) {
	if opts.FrameW == 0 || opts.FrameH == 0 {
		opts.FrameW, opts.FrameH = sc.Camera.HSize, sc.Camera.VSize
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = defaultPingInterval
	}
	if opts.Scheduler == "" {
		opts.Scheduler = "naive"
	}
	if _, err := tracer.NewScheduler(opts.Scheduler); err != nil {
		return nil, err
	}
	if opts.MaxDepth != nil && *opts.MaxDepth < 0 {
		return nil, renderer.ErrInvalidMaxDepth
	}

	return &Server{
		logger: log.New("preview server"),
		scene:  sc,
		opts:   opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sessions: make(map[string]context.CancelFunc),
	}, nil
}

// Get the HTTP handler for the server endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.serveHealth)
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

// Get the number of active render sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Abort all active render sessions.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cancel := range s.sessions {
		cancel()
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	FrameW   uint32 `json:"frameW"`
	FrameH   uint32 `json:"frameH"`
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(healthResponse{
		Status:   "ok",
		Sessions: s.Sessions(),
		FrameW:   s.opts.FrameW,
		FrameH:   s.opts.FrameH,
	})
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warningf("upgrade: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := newSession(uuid.NewString(), conn, s.opts, cancel)

	s.mu.Lock()
	s.sessions[sess.id] = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess.id)
		s.mu.Unlock()
		cancel()
	}()

	s.logger.Infof("session %s started for %s", sess.id, r.RemoteAddr)
	sess.run(ctx, s.scene)
	s.logger.Infof("session %s finished", sess.id)
}
