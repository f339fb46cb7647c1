package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/grovetools/scaffolder/logging"
	"github.com/sirupsen/logrus"
)

// Poster is the outbound side of a panel.
type Poster interface {
	PostMessage(msg interface{}) error
	ShowError(msg string)
}

// Sender is what handlers use to talk back to the panel that sent the message.
type Sender interface {
	PostMessage(cmd Command, data interface{}) error
	ShowError(msg string)
}

// Handler processes one inbound command.
type Handler func(ctx context.Context, s Sender, payload json.RawMessage) error

// Router dispatches inbound commands for a single session. Each session owns
// its own Router.
type Router struct {
	mu       sync.RWMutex
	handlers map[Command]Handler
	poster   Poster
	logger   *logrus.Entry
}

// NewRouter returns an unattached router with no handlers.
func NewRouter() *Router {
	return &Router{
		handlers: make(map[Command]Handler),
		logger:   logging.NewLogger("bridge"),
	}
}

// Attach binds the router to a panel's outbound channel, replacing any earlier binding.
func (r *Router) Attach(p Poster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.poster = p
}

// Attached reports whether the router has an outbound channel.
func (r *Router) Attached() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.poster != nil
}

// RegisterHandler registers h for cmd. The first registration for a command
// wins; later ones are ignored and reported as false.
func (r *Router) RegisterHandler(cmd Command, h Handler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[cmd]; exists {
		r.logger.WithField("command", cmd).Debug("handler already registered, ignoring")
		return false
	}
	r.handlers[cmd] = h
	return true
}

// Dispatch runs the handler for cmd synchronously. It returns false when no
// handler is registered. Handler errors and panics reach the caller.
func (r *Router) Dispatch(ctx context.Context, cmd Command, payload json.RawMessage) (bool, error) {
	r.mu.RLock()
	h, ok := r.handlers[cmd]
	r.mu.RUnlock()
	if !ok {
		r.logger.WithField("command", cmd).Debug("no handler registered")
		return false, nil
	}
	r.logger.WithField("command", cmd).Debug("dispatching")
	return true, h(ctx, r, payload)
}

// HandleMessage decodes a raw {command, data} envelope and dispatches it.
func (r *Router) HandleMessage(ctx context.Context, raw []byte) (bool, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return false, fmt.Errorf("decode message: %w", err)
	}
	return r.Dispatch(ctx, msg.Command, msg.Data)
}

// PostMessage sends {command, data} to the attached panel. Messages posted
// while unattached are dropped.
func (r *Router) PostMessage(cmd Command, data interface{}) error {
	r.mu.RLock()
	p := r.poster
	r.mu.RUnlock()
	if p == nil {
		r.logger.WithField("command", cmd).Debug("not attached, dropping message")
		return nil
	}

	msg := Message{Command: cmd}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", cmd, err)
		}
		msg.Data = raw
	}
	return p.PostMessage(msg)
}

// ShowError surfaces msg to the user through the attached panel.
func (r *Router) ShowError(msg string) {
	r.mu.RLock()
	p := r.poster
	r.mu.RUnlock()
	r.logger.Warn(msg)
	if p != nil {
		p.ShowError(msg)
	}
}
