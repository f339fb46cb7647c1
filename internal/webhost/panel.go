package webhost

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/pkg/bridge"
	"github.com/grovetools/scaffolder/pkg/panel"
	"github.com/grovetools/scaffolder/pkg/pathops"
	"github.com/sirupsen/logrus"
)

// maxPending bounds the messages kept for a panel no page has connected to yet.
const maxPending = 256

// Reserved commands exchanged between the page script and the host. They never
// reach the panel's message subscribers.
const (
	hostViewState = "host.viewState"
	hostClose     = "host.close"
)

// client is one connected page.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	visible bool
}

func (c *client) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Panel is a panel served over HTTP. The document is fetched from
// /panels/{id} and messages travel over the /panels/{id}/ws socket.
type Panel struct {
	id    string
	opts  panel.PanelOptions
	host  *Host
	roots []string

	logger *logrus.Entry

	mu       sync.Mutex
	html     string
	clients  map[*client]struct{}
	pending  [][]byte
	disposed bool

	nextSub     int
	onDispose   map[int]func()
	onViewState map[int]func(panel.ViewState)
	onMessage   map[int]func([]byte)
}

func newPanel(h *Host, id string, opts panel.PanelOptions) *Panel {
	roots := make([]string, 0, len(opts.ResourceRoots))
	for _, r := range opts.ResourceRoots {
		roots = append(roots, filepath.Clean(r))
	}
	return &Panel{
		id:          id,
		opts:        opts,
		host:        h,
		roots:       roots,
		logger:      h.logger.WithFields(logrus.Fields{"panel": id, "view": opts.ViewType}),
		clients:     make(map[*client]struct{}),
		onDispose:   make(map[int]func()),
		onViewState: make(map[int]func(panel.ViewState)),
		onMessage:   make(map[int]func([]byte)),
	}
}

// ID identifies the panel in host URLs.
func (p *Panel) ID() string {
	return p.id
}

// Title is the title the panel was created with.
func (p *Panel) Title() string {
	return p.opts.Title
}

// URL is the address of the panel document.
func (p *Panel) URL() string {
	return p.host.Origin() + "/panels/" + p.id
}

// Reveal opens the panel in a browser when no page shows it yet.
func (p *Panel) Reveal() {
	p.mu.Lock()
	shown := len(p.clients) > 0
	disposed := p.disposed
	p.mu.Unlock()
	if shown || disposed {
		return
	}
	p.host.open(p.URL())
}

// SetHTML replaces the document served for the panel. Connected pages pick it
// up on their next load.
func (p *Panel) SetHTML(html string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.html = html
}

// HTML returns the current document.
func (p *Panel) HTML() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.html
}

// PostMessage sends msg as JSON to every connected page. Messages posted
// before any page connects are delivered on the first connection.
func (p *Panel) PostMessage(msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode panel message: %w", err)
	}

	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return errors.SessionNotFound(p.id)
	}
	if len(p.clients) == 0 {
		if len(p.pending) >= maxPending {
			p.pending = p.pending[1:]
		}
		p.pending = append(p.pending, data)
		p.mu.Unlock()
		return nil
	}
	clients := make([]*client, 0, len(p.clients))
	for c := range p.clients {
		clients = append(clients, c)
	}
	p.mu.Unlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			p.logger.WithError(err).Debug("Failed to write to page")
		}
	}
	return nil
}

// ShowError forwards msg to the page as an error message.
func (p *Panel) ShowError(msg string) {
	p.logger.Warn(msg)
	if err := p.PostMessage(bridge.Message{Command: bridge.CommandError, Data: mustJSON(msg)}); err != nil {
		p.logger.WithError(err).Debug("Failed to post error")
	}
}

// CSPSource is the host origin.
func (p *Panel) CSPSource() string {
	return p.host.Origin()
}

// AsResourceURI maps rel, relative to the first resource root, to a URL
// served by the host.
func (p *Panel) AsResourceURI(rel string) (string, error) {
	if len(p.roots) == 0 {
		return "", errors.NoPermissions(rel)
	}
	full, err := p.resolve(rel)
	if err != nil {
		return "", err
	}
	if _, err := pathops.Stat(context.Background(), full); err != nil {
		return "", err
	}
	escaped := (&url.URL{Path: path.Clean(filepath.ToSlash(rel))}).EscapedPath()
	return p.host.Origin() + "/panels/" + p.id + "/resources/" + strings.TrimPrefix(escaped, "/"), nil
}

// resolve maps rel to a file below the first resource root. Paths escaping
// the root fail with NO_PERMISSIONS.
func (p *Panel) resolve(rel string) (string, error) {
	root := p.roots[0]
	full := filepath.Join(root, filepath.FromSlash(rel))
	r, err := filepath.Rel(root, full)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", errors.NoPermissions(rel)
	}
	return full, nil
}

// Visible reports whether any connected page is showing the panel.
func (p *Panel) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for c := range p.clients {
		if c.visible {
			return true
		}
	}
	return false
}

// Dispose closes every page connection and notifies dispose subscribers once.
func (p *Panel) Dispose() {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.disposed = true
	clients := p.clients
	p.clients = make(map[*client]struct{})
	p.pending = nil
	callbacks := make([]func(), 0, len(p.onDispose))
	for _, fn := range p.onDispose {
		callbacks = append(callbacks, fn)
	}
	p.mu.Unlock()

	for c := range clients {
		_ = c.conn.Close()
	}
	p.host.remove(p.id)
	p.logger.Debug("Panel disposed")

	for _, fn := range callbacks {
		fn()
	}
}

// Disposed reports whether Dispose has run.
func (p *Panel) Disposed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disposed
}

func (p *Panel) OnDidDispose(fn func()) panel.Disposable {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextSub
	p.nextSub++
	p.onDispose[id] = fn
	return panel.DisposableFunc(func() {
		p.mu.Lock()
		delete(p.onDispose, id)
		p.mu.Unlock()
	})
}

func (p *Panel) OnDidChangeViewState(fn func(panel.ViewState)) panel.Disposable {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextSub
	p.nextSub++
	p.onViewState[id] = fn
	return panel.DisposableFunc(func() {
		p.mu.Lock()
		delete(p.onViewState, id)
		p.mu.Unlock()
	})
}

func (p *Panel) OnDidReceiveMessage(fn func(raw []byte)) panel.Disposable {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextSub
	p.nextSub++
	p.onMessage[id] = fn
	return panel.DisposableFunc(func() {
		p.mu.Lock()
		delete(p.onMessage, id)
		p.mu.Unlock()
	})
}

// attach registers a page connection and flushes pending messages to it.
func (p *Panel) attach(c *client) bool {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return false
	}
	p.clients[c] = struct{}{}
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()

	for _, data := range pending {
		if err := c.write(data); err != nil {
			p.logger.WithError(err).Debug("Failed to flush pending message")
			break
		}
	}
	return true
}

func (p *Panel) detach(c *client) {
	before := p.Visible()
	p.mu.Lock()
	delete(p.clients, c)
	p.mu.Unlock()
	p.notifyViewState(before)
}

// receive routes one frame from a page. Host commands are consumed here;
// everything else goes to message subscribers.
func (p *Panel) receive(c *client, raw []byte) {
	var envelope struct {
		Command string `json:"command"`
		Data    struct {
			Visible bool `json:"visible"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		switch envelope.Command {
		case hostViewState:
			p.setVisible(c, envelope.Data.Visible)
			return
		case hostClose:
			p.Dispose()
			return
		}
	}

	p.mu.Lock()
	callbacks := make([]func([]byte), 0, len(p.onMessage))
	for _, fn := range p.onMessage {
		callbacks = append(callbacks, fn)
	}
	p.mu.Unlock()
	for _, fn := range callbacks {
		fn(raw)
	}
}

// setVisible records c's visibility.
func (p *Panel) setVisible(c *client, visible bool) {
	before := p.Visible()
	p.mu.Lock()
	c.visible = visible
	p.mu.Unlock()
	p.notifyViewState(before)
}

// notifyViewState tells subscribers when overall visibility differs from before.
func (p *Panel) notifyViewState(before bool) {
	after := p.Visible()
	if before == after {
		return
	}

	p.mu.Lock()
	callbacks := make([]func(panel.ViewState), 0, len(p.onViewState))
	for _, fn := range p.onViewState {
		callbacks = append(callbacks, fn)
	}
	p.mu.Unlock()
	state := panel.ViewState{Visible: after, Active: after}
	for _, fn := range callbacks {
		fn(state)
	}
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
