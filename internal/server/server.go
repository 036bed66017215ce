// Package server serves the policy tree for a single evaluated request as
// an SVG page, and streams internal/batch progress updates to a connected
// client over a websocket. It is the optional presentation layer described
// by this module's specification: the scroll decision itself never depends
// on anything in this package.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"

	"github.com/capreolina/scroll-strategist/internal/batch"
	"github.com/capreolina/scroll-strategist/internal/engine"
	"github.com/capreolina/scroll-strategist/internal/server/policyview"
)

var upgrader = websocket.Upgrader{}

const (
	writeWait      = 1 * time.Second
	pongWait       = 60 * time.Second
	pingResolution = time.Millisecond * 500
)

// Server serves one request's policy tree and, if Progress is non-nil,
// fans out batch progress to any client connected over /ws.
type Server struct {
	addr     string
	result   *engine.Result
	tree     *engine.PolicyNode
	progress <-chan batch.Progress
}

// New builds a Server around the outcome of a single evaluated request.
// progress may be nil if there is no batch run to narrate.
func New(addr string, result *engine.Result, tree *engine.PolicyNode, progress <-chan batch.Progress) *Server {
	return &Server{addr: addr, result: result, tree: tree, progress: progress}
}

// Serve blocks, serving the decision as both an HTML/SVG page and a
// websocket progress feed, until the listener fails.
func (s *Server) Serve() error {
	router := mux.NewRouter()
	router.HandleFunc("/", s.serveIndex).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.serveWebsocket).Methods(http.MethodGet)

	log.Printf("server: listening on %s", s.addr)
	if err := http.ListenAndServe(s.addr, router); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, "<!doctype html><html><body><h1>choice=%d p=%.4f e=%.2f</h1>",
		s.result.Choice, s.result.PGoal, s.result.ECost)
	if err := policyview.Render(w, s.tree); err != nil {
		fmt.Fprintf(w, "<p>render error: %s</p>", err)
	}
	fmt.Fprint(w, "</body></html>")
}

// serveWebsocket streams batch progress to the client, pinging it at
// pingResolution to detect disconnects, mirroring the ping/pong keepalive
// this codebase's other websocket handler uses.
func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		log.Println("upgrade:", err)
		return
	}
	defer closeWebsocket(ws)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	pong := make(chan struct{})
	defer close(pong)
	ws.SetPongHandler(func(string) error {
		pong <- struct{}{}
		return nil
	})

	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	pinger := channerics.NewTicker(ctx.Done(), pingResolution)
	lastPong := time.Now()

	var progress <-chan batch.Progress = s.progress
	if progress == nil {
		progress = make(chan batch.Progress)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-pinger:
			if time.Since(lastPong) > pingResolution*4 {
				return
			}
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-pong:
			lastPong = time.Now()
		case p, ok := <-progress:
			if !ok {
				return
			}
			if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := ws.WriteJSON(p); err != nil {
				return
			}
		}
	}
}

func closeWebsocket(ws *websocket.Conn) {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	ws.Close()
}
