package server

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/achilleasa/lumen/renderer"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func testScene(t *testing.T) *scene.Scene {
	t.Helper()

	world := scene.NewWorld()
	world.AddLight(scene.NewPointLight(types.XYZ(-10, 10, -10), types.White))
	world.AddShape(scene.NewSphere().WithMaterial(
		scene.NewMaterial().WithColor(types.RGB(0.8, 1.0, 0.6)).WithDiffuse(0.7).WithSpecular(0.2),
	))
	inner, err := scene.NewSphere().WithTransform(types.Scaling(0.5, 0.5, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	world.AddShape(inner)

	camera := scene.NewCamera(11, 11, math.Pi/2)
	if err := camera.SetTransform(types.ViewTransform(types.XYZ(0, 0, -5), types.XYZ(0, 0, 0), types.XYZ(0, 1, 0))); err != nil {
		t.Fatal(err)
	}
	return scene.NewScene(camera, world)
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

// A superset of the messages sent by the server.
type clientMessage struct {
	Session      string `json:"session"`
	Type         string `json:"type"`
	Row          uint32 `json:"row"`
	Width        uint32 `json:"width"`
	Pixels       []byte `json:"pixels"`
	RenderTimeMs int64  `json:"renderTimeMs"`
	Error        string `json:"error"`
}

func TestHealth(t *testing.T) {
	srv, err := New(testScene(t), Options{})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200; got %d", rr.Code)
	}
	var res healthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	exp := healthResponse{Status: "ok", FrameW: 11, FrameH: 11}
	if res != exp {
		t.Fatalf("expected %+v; got %+v", exp, res)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405; got %d", rr.Code)
	}
}

func TestUnknownScheduler(t *testing.T) {
	if _, err := New(testScene(t), Options{Scheduler: "fair"}); err == nil {
		t.Fatal("expected an error for an unknown scheduler")
	}
}

func TestNegativeMaxDepth(t *testing.T) {
	depth := -1
	if _, err := New(testScene(t), Options{MaxDepth: &depth}); err != renderer.ErrInvalidMaxDepth {
		t.Fatalf("expected ErrInvalidMaxDepth; got %v", err)
	}
}

func TestStreamFrame(t *testing.T) {
	srv, err := New(testScene(t), Options{NumTracers: 3, Scheduler: "perfect"})
	if err != nil {
		t.Fatal(err)
	}
	server := httptest.NewServer(srv.Handler())
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	rows := make(map[uint32][]byte)
	var sessionID string
	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("unexpected read error: %v", err)
		}

		if sessionID == "" {
			sessionID = msg.Session
			if _, err := uuid.Parse(sessionID); err != nil {
				t.Fatalf("expected a uuid session id; got %q", sessionID)
			}
		} else if msg.Session != sessionID {
			t.Fatalf("expected session id %q; got %q", sessionID, msg.Session)
		}

		if msg.Type == "done" {
			break
		}
		if msg.Type != "row" {
			t.Fatalf("unexpected message %+v", msg)
		}
		if msg.Width != 11 || len(msg.Pixels) != 3*11 {
			t.Fatalf("expected 11 RGB8 pixels for row %d; got width %d and %d bytes", msg.Row, msg.Width, len(msg.Pixels))
		}
		if _, seen := rows[msg.Row]; seen {
			t.Fatalf("row %d sent twice", msg.Row)
		}
		rows[msg.Row] = msg.Pixels
	}

	if len(rows) != 11 {
		t.Fatalf("expected 11 rows; got %d", len(rows))
	}

	center := rows[5][3*5 : 3*5+3]
	exp := []byte{97, 121, 73}
	for i := range exp {
		if center[i] != exp[i] {
			t.Fatalf("expected center pixel %v; got %v", exp, center)
		}
	}

	// The server closes the connection once the frame is done.
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected a normal close; got %v", err)
	}
}

func TestClientDisconnectEndsSession(t *testing.T) {
	sc := testScene(t)
	srv, err := New(sc, Options{FrameW: 256, FrameH: 256, NumTracers: 1})
	if err != nil {
		t.Fatal(err)
	}
	server := httptest.NewServer(srv.Handler())
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server), nil)
	if err != nil {
		t.Fatal(err)
	}
	conn.Close()

	deadline := time.Now().Add(10 * time.Second)
	for srv.Sessions() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected session to end after client disconnect; %d still active", srv.Sessions())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
