// Package webhost serves panels to a browser. Each panel document is served
// over HTTP and exchanges messages with the process over a websocket.
package webhost

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/logging"
	"github.com/grovetools/scaffolder/pkg/panel"
	"github.com/grovetools/scaffolder/pkg/vtree"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// maxFrameSize limits a single message from a page.
const maxFrameSize = 1 << 20

// SessionOpener opens panel sessions by document key.
type SessionOpener interface {
	CreateOrShow(ctx context.Context, title, key string) (*panel.Session, error)
	Keys() []string
}

// Options configures a Host.
type Options struct {
	// Addr is the TCP listen address.
	Addr string
	// Tree backs the /api/tree and /api/watch endpoints. Nil disables them.
	Tree  *vtree.Tree
	Watch vtree.WatchOptions
	// Titles maps document keys to panel titles for /open/{key}.
	Titles map[string]string
	// DefaultDocument is opened when / is requested.
	DefaultDocument string
	// Open shows a URL to the user. Nil only logs it.
	Open func(url string) error
}

// Host implements panel.Host on top of an HTTP server.
type Host struct {
	opts     Options
	logger   *logrus.Entry
	upgrader websocket.Upgrader

	mu       sync.Mutex
	origin   string
	listener net.Listener
	server   *http.Server
	sessions SessionOpener
	panels   map[string]*Panel
	seq      int
}

// New creates a host. Call Listen before creating panels so that resource
// URIs carry the bound address.
func New(opts Options) *Host {
	h := &Host{
		opts:   opts,
		logger: logging.NewLogger("webhost"),
		panels: make(map[string]*Panel),
	}
	if h.opts.Addr == "" {
		h.opts.Addr = "127.0.0.1:7788"
	}
	h.origin = "http://" + h.opts.Addr
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// SetSessions sets the manager used by /open/{key}.
func (h *Host) SetSessions(s SessionOpener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions = s
}

// Origin is the scheme and address pages are served from.
func (h *Host) Origin() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.origin
}

// CreatePanel registers a new panel. Its document is empty until SetHTML.
func (h *Host) CreatePanel(opts panel.PanelOptions) (panel.Panel, error) {
	if opts.ViewType == "" {
		return nil, errors.ValidationFailed("panel view type is required")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	id := opts.ViewType + "-" + strconv.Itoa(h.seq)
	p := newPanel(h, id, opts)
	h.panels[id] = p
	h.logger.WithFields(logrus.Fields{"panel": id, "title": opts.Title}).Debug("Panel registered")
	return p, nil
}

// Panel looks up a live panel by id.
func (h *Host) Panel(id string) (*Panel, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.panels[id]
	return p, ok
}

// Panels returns the live panels ordered by id.
func (h *Host) Panels() []*Panel {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := make([]*Panel, 0, len(h.panels))
	for _, p := range h.panels {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].id < result[j].id })
	return result
}

func (h *Host) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.panels, id)
}

func (h *Host) open(url string) {
	if h.opts.Open == nil {
		h.logger.Infof("Panel available at %s", url)
		return
	}
	if err := h.opts.Open(url); err != nil {
		h.logger.WithError(err).Warnf("Failed to open %s", url)
	}
}

// Listen binds the listen address. The origin is updated with the bound
// port, so ":0" may be used.
func (h *Host) Listen() error {
	listener, err := net.Listen("tcp", h.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", h.opts.Addr, err)
	}
	h.mu.Lock()
	h.listener = listener
	h.origin = "http://" + listener.Addr().String()
	h.server = &http.Server{
		Handler:           h2c.NewHandler(h.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	h.mu.Unlock()
	return nil
}

// Serve accepts connections until Shutdown. Listen must have been called.
func (h *Host) Serve() error {
	h.mu.Lock()
	server, listener, origin := h.server, h.listener, h.origin
	h.mu.Unlock()
	if server == nil {
		return fmt.Errorf("host is not listening")
	}

	h.logger.WithField("origin", origin).Info("Panel host listening")
	if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// ListenAndServe binds and serves. It blocks until the server stops or fails.
func (h *Host) ListenAndServe() error {
	if err := h.Listen(); err != nil {
		return err
	}
	return h.Serve()
}

// Shutdown disposes every panel and stops the server.
func (h *Host) Shutdown(ctx context.Context) error {
	h.logger.Info("Shutting down panel host...")
	for _, p := range h.Panels() {
		p.Dispose()
	}
	h.mu.Lock()
	server := h.server
	h.mu.Unlock()
	if server != nil {
		return server.Shutdown(ctx)
	}
	return nil
}

// Handler returns the host's routes.
func (h *Host) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(h.requestLogger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.Get("/", h.handleRoot)
	router.Get("/open/{key}", h.handleOpen)

	router.Route("/panels/{id}", func(r chi.Router) {
		r.Get("/", h.handleDocument)
		r.Get("/ws", h.handleSocket)
		r.Get("/resources/*", h.handleResource)
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/panels", h.handleListPanels)
		r.Get("/tree", h.handleTree)
		r.Get("/tree/item", h.handleTreeItem)
		r.Get("/watch", h.handleWatch)
	})
	return router
}

// requestLogger logs each request at debug level through logrus.
func (h *Host) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}

// checkOrigin accepts same-origin pages and clients that send no origin.
func (h *Host) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || origin == h.Origin() || origin == "http://"+r.Host
}

func (h *Host) handleRoot(w http.ResponseWriter, r *http.Request) {
	if h.opts.DefaultDocument == "" {
		h.handleListPanels(w, r)
		return
	}
	http.Redirect(w, r, "/open/"+h.opts.DefaultDocument, http.StatusFound)
}

// handleOpen creates or reveals the session for a document and redirects to
// its panel.
func (h *Host) handleOpen(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	sessions := h.sessions
	h.mu.Unlock()
	if sessions == nil {
		http.Error(w, "panel manager not initialized", http.StatusServiceUnavailable)
		return
	}

	key := chi.URLParam(r, "key")
	title := h.opts.Titles[key]
	if title == "" {
		title = key
	}
	s, err := sessions.CreateOrShow(r.Context(), title, key)
	if err != nil {
		writeError(w, err)
		return
	}
	p, ok := s.Panel.(*Panel)
	if !ok {
		http.Error(w, "panel is not served by this host", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/panels/"+p.id, http.StatusFound)
}

func (h *Host) lookup(w http.ResponseWriter, r *http.Request) (*Panel, bool) {
	id := chi.URLParam(r, "id")
	p, ok := h.Panel(id)
	if !ok {
		writeError(w, errors.SessionNotFound(id))
		return nil, false
	}
	return p, true
}

func (h *Host) handleDocument(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(p.HTML()))
}

func (h *Host) handleResource(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if len(p.roots) == 0 {
		writeError(w, errors.NoPermissions(r.URL.Path))
		return
	}
	full, err := p.resolve(chi.URLParam(r, "*"))
	if err != nil {
		writeError(w, err)
		return
	}
	st, err := h.statFile(r.Context(), full)
	if err != nil {
		writeError(w, err)
		return
	}
	if st.Kind != vtree.File {
		writeError(w, errors.FileIsADirectory(full))
		return
	}
	http.ServeFile(w, r, full)
}

// handleSocket upgrades to a websocket carrying the panel's messages.
func (h *Host) handleSocket(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		p.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameSize)

	c := &client{conn: conn}
	if !p.attach(c) {
		return
	}
	defer p.detach(c)
	p.logger.Debug("Page connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.logger.WithError(err).Debug("Page connection lost")
			}
			return
		}
		p.receive(c, data)
	}
}

type panelInfo struct {
	ID       string `json:"id"`
	ViewType string `json:"viewType"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Visible  bool   `json:"visible"`
}

func (h *Host) handleListPanels(w http.ResponseWriter, r *http.Request) {
	panels := h.Panels()
	infos := make([]panelInfo, 0, len(panels))
	for _, p := range panels {
		infos = append(infos, panelInfo{
			ID:       p.id,
			ViewType: p.opts.ViewType,
			Title:    p.opts.Title,
			URL:      p.URL(),
			Visible:  p.Visible(),
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP statuses and replies with the
// structured error.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeSessionNotFound:
		status = http.StatusNotFound
	case errors.ErrCodePermissionDenied:
		status = http.StatusForbidden
	case errors.ErrCodeValidation, errors.ErrCodeIsADirectory:
		status = http.StatusBadRequest
	case errors.ErrCodeAlreadyExists:
		status = http.StatusConflict
	}
	body, ok := errors.As(err)
	if !ok {
		body = errors.Wrap(err, errors.ErrCodeUnknown, err.Error())
	}
	writeJSON(w, status, body)
}
