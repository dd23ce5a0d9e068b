// Package net shares saved doodles on the local network: a websocket feed of
// new doodles, a small HTTP gallery, and mDNS discovery.
package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"cloudoodle/internal/gallery"
	"cloudoodle/internal/logging"
)

const writeTimeout = 5 * time.Second

// Gallery is the part of the doodle store the hub serves from.
type Gallery interface {
	List(ctx context.Context) ([]gallery.Doodle, error)
	Image(id string, thumbnail bool) ([]byte, error)
}

// Announcement is sent to every viewer when a doodle is saved.
type Announcement struct {
	Type        string    `json:"type"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Image       string    `json:"image"`
}

func announcementFor(d gallery.Doodle) Announcement {
	return Announcement{
		Type:        "doodle",
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		Image:       "/doodles/" + d.ID + ".png",
	}
}

// peer is one connected viewer. gorilla connections allow a single writer
// at a time.
type peer struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *peer) write(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub tracks connected viewers and serves the gallery over HTTP.
type Hub struct {
	gallery  Gallery
	upgrader websocket.Upgrader
	log      *slog.Logger

	mu    sync.RWMutex
	peers map[*websocket.Conn]*peer
}

func NewHub(g Gallery) *Hub {
	return &Hub{
		gallery: g,
		upgrader: websocket.Upgrader{
			// Viewers are other machines on the LAN, not browsers on our origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log:   logging.For("share"),
		peers: make(map[*websocket.Conn]*peer),
	}
}

func (h *Hub) add(c *websocket.Conn) *peer {
	h.mu.Lock()
	defer h.mu.Unlock()
	p := &peer{conn: c}
	h.peers[c] = p
	h.log.Info("viewer connected", "addr", c.RemoteAddr().String(), "viewers", len(h.peers))
	return p
}

func (h *Hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[c]; !ok {
		return
	}
	delete(h.peers, c)
	c.Close()
	h.log.Info("viewer disconnected", "addr", c.RemoteAddr().String(), "viewers", len(h.peers))
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Announce tells every viewer about a saved doodle. Viewers that cannot be
// written to are dropped.
func (h *Hub) Announce(d gallery.Doodle) {
	data, err := json.Marshal(announcementFor(d))
	if err != nil {
		h.log.Error("encoding announcement", "id", d.ID, "err", err)
		return
	}

	h.mu.RLock()
	peers := make([]*peer, 0, len(h.peers))
	for _, p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.RUnlock()

	for _, p := range peers {
		if err := p.write(data); err != nil {
			h.log.Warn("sending announcement", "addr", p.conn.RemoteAddr().String(), "err", err)
			h.remove(p.conn)
		}
	}
	h.log.Debug("doodle announced", "id", d.ID, "viewers", len(peers))
}

// Handler serves the websocket feed and the gallery.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", h.serveWS)
	mux.HandleFunc("GET /doodles", h.serveList)
	mux.HandleFunc("GET /doodles/{file}", h.serveImage)
	return mux
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", "addr", r.RemoteAddr, "err", err)
		return
	}
	h.add(c)
	defer h.remove(c)

	// Viewers only listen; reading keeps control frames flowing and notices
	// when they go away.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) serveList(w http.ResponseWriter, r *http.Request) {
	all, err := h.gallery.List(r.Context())
	if err != nil {
		h.log.Error("listing doodles", "err", err)
		http.Error(w, "gallery unavailable", http.StatusInternalServerError)
		return
	}
	list := make([]Announcement, len(all))
	for i, d := range all {
		list[i] = announcementFor(d)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *Hub) serveImage(w http.ResponseWriter, r *http.Request) {
	id, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	if !ok {
		http.NotFound(w, r)
		return
	}
	data, err := h.gallery.Image(id, r.URL.Query().Get("thumb") != "")
	if errors.Is(err, gallery.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.log.Error("reading doodle image", "id", id, "err", err)
		http.Error(w, "gallery unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

// Serve listens on port until ctx is done.
func (h *Hub) Serve(ctx context.Context, port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("share hub listening on port %d: %w", port, err)
	}
	return h.serve(ctx, ln)
}

func (h *Hub) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: h.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		h.closeAll()
	}()

	h.log.Info("share hub listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// closeAll drops every viewer. Shutdown does not close hijacked connections.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.peers {
		c.Close()
		delete(h.peers, c)
	}
}
