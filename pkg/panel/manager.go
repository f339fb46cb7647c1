// Package panel manages the lifecycle of panel sessions: one session per
// document key, each with its own message router.
package panel

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/logging"
	"github.com/grovetools/scaffolder/pkg/bridge"
	"github.com/grovetools/scaffolder/pkg/render"
	"github.com/grovetools/scaffolder/pkg/scaffold"
	"github.com/sirupsen/logrus"
)

// Manager owns every open session.
type Manager struct {
	host      Host
	assetsDir string
	protocol  *bridge.Protocol
	logger    *logrus.Entry

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager returns a manager creating panels on host. Panel documents and
// their resources live in <assetsDir>/webview.
func NewManager(host Host, assetsDir string, protocol *bridge.Protocol) *Manager {
	return &Manager{
		host:      host,
		assetsDir: assetsDir,
		protocol:  protocol,
		logger:    logging.NewLogger("panel"),
		sessions:  make(map[string]*Session),
	}
}

// ResourceRoot is the directory panels may load resources from.
func (m *Manager) ResourceRoot() string {
	return filepath.Join(m.assetsDir, "webview")
}

// Verify checks a project configuration before scaffolding.
func Verify(cfg *scaffold.ProjectConfig, n scaffold.Notifier) bool {
	return scaffold.Verify(cfg, n)
}

// CreateOrShow reveals the session for key, or creates one rendering the
// document <resource root>/<key>. Calls are serialized.
func (m *Manager) CreateOrShow(ctx context.Context, title, key string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[key]; ok {
		m.logger.WithField("key", key).Debug("Revealing existing panel")
		s.Panel.Reveal()
		return s, nil
	}

	if key == "" || filepath.Base(key) != key {
		return nil, errors.ValidationFailed(fmt.Sprintf("invalid panel document: %q", key))
	}

	p, err := m.host.CreatePanel(PanelOptions{
		ViewType:      strings.TrimSuffix(key, filepath.Ext(key)) + "_panel",
		Title:         title,
		ResourceRoots: []string{m.ResourceRoot()},
		EnableScripts: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create panel %s: %w", key, err)
	}

	router := bridge.NewRouter()
	router.Attach(p)
	if m.protocol != nil {
		m.protocol.Register(router)
	}

	s := &Session{Key: key, Title: title, Panel: p, Router: router}
	if err := m.render(ctx, s); err != nil {
		p.Dispose()
		return nil, err
	}

	s.Track(p.OnDidDispose(func() {
		m.disposeSession(s)
	}))
	s.Track(p.OnDidChangeViewState(func(vs ViewState) {
		if !vs.Visible {
			return
		}
		if err := m.render(context.Background(), s); err != nil {
			m.logger.WithError(err).WithField("key", key).Error("Failed to re-render panel")
		}
	}))
	s.Track(p.OnDidReceiveMessage(func(raw []byte) {
		m.handleMessage(s, raw)
	}))

	m.sessions[key] = s
	m.logger.WithFields(logrus.Fields{"key": key, "title": title}).Info("Panel created")
	return s, nil
}

// Session returns the open session for key.
func (m *Manager) Session(key string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	return s, ok
}

// Keys lists the open sessions in name order.
func (m *Manager) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.sessions))
	for k := range m.sessions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dispose closes the session for key. It reports whether a session was open;
// repeated calls are no-ops.
func (m *Manager) Dispose(key string) bool {
	m.mu.Lock()
	s, ok := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.dispose()
	m.logger.WithField("key", key).Info("Panel disposed")
	return true
}

// disposeSession closes s if it is still the session registered under its key.
// A late callback from a replaced panel leaves the newer session alone.
func (m *Manager) disposeSession(s *Session) {
	m.mu.Lock()
	cur, ok := m.sessions[s.Key]
	if ok && cur == s {
		delete(m.sessions, s.Key)
	}
	m.mu.Unlock()

	if !ok || cur != s {
		return
	}
	s.dispose()
	m.logger.WithField("key", s.Key).Info("Panel disposed")
}

// DisposeAll closes every open session.
func (m *Manager) DisposeAll() {
	for _, key := range m.Keys() {
		m.Dispose(key)
	}
}

// Render re-renders the document of an open session.
func (m *Manager) Render(ctx context.Context, key string) error {
	s, ok := m.Session(key)
	if !ok {
		return errors.SessionNotFound(key)
	}
	return m.render(ctx, s)
}

func (m *Manager) render(ctx context.Context, s *Session) error {
	r := &render.Renderer{
		CSPSource: s.Panel.CSPSource(),
		Assets:    s.Panel,
	}
	html, err := r.RenderFile(ctx, filepath.Join(m.ResourceRoot(), s.Key))
	if err != nil {
		return err
	}
	s.Panel.SetHTML(html)
	return nil
}

// handleMessage dispatches one inbound message. Failures are logged and the
// panel stays open.
func (m *Manager) handleMessage(s *Session, raw []byte) {
	logger := m.logger.WithField("key", s.Key)
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Handler panicked: %v", r)
		}
	}()

	handled, err := s.Router.HandleMessage(context.Background(), raw)
	if err != nil {
		logger.WithError(err).Error("Message handler failed")
		return
	}
	if !handled {
		logger.Debugf("Unhandled message: %s", raw)
	}
}
