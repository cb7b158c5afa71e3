package server

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/achilleasa/lumen/frame"
	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/renderer"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/tracer"
	"github.com/gorilla/websocket"
)

// Sent once per completed row. Pixels are packed RGB8 triplets which
// encoding/json emits as base64.
type rowMessage struct {
	Session string `json:"session"`
	Type    string `json:"type"`
	Row     uint32 `json:"row"`
	Width   uint32 `json:"width"`
	Pixels  []byte `json:"pixels"`
}

type doneMessage struct {
	Session      string `json:"session"`
	Type         string `json:"type"`
	RenderTimeMs int64  `json:"renderTimeMs"`
}

type errorMessage struct {
	Session string `json:"session"`
	Type    string `json:"type"`
	Error   string `json:"error"`
}

type session struct {
	id     string
	logger log.Logger
	conn   *websocket.Conn
	opts   Options
	cancel context.CancelFunc

	// Encoded messages waiting for the writer.
	send chan []byte
}

func newSession(id string, conn *websocket.Conn, opts Options, cancel context.CancelFunc) *session {
	return &session{
		id:     id,
		logger: log.New("session " + id[:8]),
		conn:   conn,
		opts:   opts,
		cancel: cancel,
		send:   make(chan []byte, opts.FrameH+2),
	}
}

// Render the scene and stream it to the client. Returns once the connection
// has been closed.
func (s *session) run(ctx context.Context, sc *scene.Scene) {
	writerDone := make(chan struct{})
	go s.readLoop()
	go s.writeLoop(ctx, writerDone)

	s.render(ctx, sc)

	close(s.send)
	<-writerDone
}

func (s *session) render(ctx context.Context, sc *scene.Scene) {
	scheduler, err := tracer.NewScheduler(s.opts.Scheduler)
	if err != nil {
		s.queue(ctx, errorMessage{Session: s.id, Type: "error", Error: err.Error()})
		return
	}

	r, err := renderer.NewDefault(sc, scheduler, renderer.Options{
		FrameW:     s.opts.FrameW,
		FrameH:     s.opts.FrameH,
		MaxDepth:   s.opts.MaxDepth,
		NumTracers: s.opts.NumTracers,
		OnRowDone: func(fr *frame.Frame, y uint32) {
			s.queue(ctx, rowMessage{
				Session: s.id,
				Type:    "row",
				Row:     y,
				Width:   fr.W,
				Pixels:  fr.RowRGB8(y),
			})
		},
	})
	if err != nil {
		s.queue(ctx, errorMessage{Session: s.id, Type: "error", Error: err.Error()})
		return
	}
	defer r.Close()

	start := time.Now()
	_, err = r.Render(ctx)
	switch {
	case errors.Is(err, renderer.ErrInterrupted):
		s.logger.Info("render interrupted")
	case err != nil:
		s.logger.Errorf("render failed: %v", err)
		s.queue(ctx, errorMessage{Session: s.id, Type: "error", Error: err.Error()})
	default:
		s.queue(ctx, doneMessage{Session: s.id, Type: "done", RenderTimeMs: time.Since(start).Milliseconds()})
	}
}

// Encode and queue a message for the writer. Messages are dropped once the
// session context is cancelled.
func (s *session) queue(ctx context.Context, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Errorf("encode message: %v", err)
		return
	}

	select {
	case s.send <- data:
	case <-ctx.Done():
	}
}

// Drain client messages; any read error means the client went away.
func (s *session) readLoop() {
	defer s.cancel()
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *session) writeLoop(ctx context.Context, done chan<- struct{}) {
	ticker := time.NewTicker(s.opts.PingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Warningf("write: %v", err)
				s.cancel()
				s.drain()
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.cancel()
				s.drain()
				return
			}
		case <-ctx.Done():
			// Client is gone; discard whatever the renderer still queues.
			s.drain()
			return
		}
	}
}

// Discard queued messages until the channel is closed.
func (s *session) drain() {
	for range s.send {
	}
}
