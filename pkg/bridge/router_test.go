package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePoster records everything a router sends to its panel.
type fakePoster struct {
	mu       sync.Mutex
	messages []Message
	errors   []string
}

func (f *fakePoster) PostMessage(msg interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := msg.(Message)
	if !ok {
		return errors.New("unexpected message type")
	}
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakePoster) ShowError(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, msg)
}

func (f *fakePoster) commands() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	var cmds []Command
	for _, m := range f.messages {
		cmds = append(cmds, m.Command)
	}
	return cmds
}

func (f *fakePoster) find(cmd Command) (Message, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.Command == cmd {
			return m, true
		}
	}
	return Message{}, false
}

func TestRouter_DispatchUnregistered(t *testing.T) {
	r := NewRouter()
	poster := &fakePoster{}
	r.Attach(poster)

	handled, err := r.Dispatch(context.Background(), "nope", nil)
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Empty(t, poster.messages)
}

func TestRouter_FirstRegistrationWins(t *testing.T) {
	r := NewRouter()
	var called string

	assert.True(t, r.RegisterHandler("ping", func(ctx context.Context, s Sender, payload json.RawMessage) error {
		called = "first"
		return nil
	}))
	assert.False(t, r.RegisterHandler("ping", func(ctx context.Context, s Sender, payload json.RawMessage) error {
		called = "second"
		return nil
	}))

	handled, err := r.Dispatch(context.Background(), "ping", nil)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "first", called)
}

func TestRouter_HandlerErrorPropagates(t *testing.T) {
	r := NewRouter()
	boom := errors.New("boom")
	r.RegisterHandler("fail", func(ctx context.Context, s Sender, payload json.RawMessage) error {
		return boom
	})

	handled, err := r.Dispatch(context.Background(), "fail", nil)
	assert.True(t, handled)
	assert.ErrorIs(t, err, boom)
}

func TestRouter_HandlerPanicPropagates(t *testing.T) {
	r := NewRouter()
	r.RegisterHandler("panic", func(ctx context.Context, s Sender, payload json.RawMessage) error {
		panic("handler bug")
	})

	assert.Panics(t, func() {
		_, _ = r.Dispatch(context.Background(), "panic", nil)
	})
}

func TestRouter_PayloadAndSender(t *testing.T) {
	r := NewRouter()
	poster := &fakePoster{}
	r.Attach(poster)
	r.RegisterHandler("echo", func(ctx context.Context, s Sender, payload json.RawMessage) error {
		var v string
		if err := json.Unmarshal(payload, &v); err != nil {
			return err
		}
		return s.PostMessage("echoed", v)
	})

	handled, err := r.HandleMessage(context.Background(), []byte(`{"command":"echo","data":"hello"}`))
	require.NoError(t, err)
	assert.True(t, handled)

	msg, ok := poster.find("echoed")
	require.True(t, ok)
	assert.JSONEq(t, `"hello"`, string(msg.Data))
}

func TestRouter_HandleMessageInvalidJSON(t *testing.T) {
	r := NewRouter()
	handled, err := r.HandleMessage(context.Background(), []byte(`{not json`))
	assert.False(t, handled)
	assert.Error(t, err)
}

func TestRouter_Attach(t *testing.T) {
	r := NewRouter()
	assert.False(t, r.Attached())
	require.NoError(t, r.PostMessage(CommandTmpls, []string{"a"}))

	first := &fakePoster{}
	second := &fakePoster{}
	r.Attach(first)
	assert.True(t, r.Attached())
	r.Attach(second)

	require.NoError(t, r.PostMessage(CommandTmpls, []string{"a"}))
	r.ShowError("oops")

	assert.Empty(t, first.messages)
	assert.Equal(t, []Command{CommandTmpls}, second.commands())
	assert.Equal(t, []string{"oops"}, second.errors)
}

func TestRouter_PostMessageWithoutData(t *testing.T) {
	r := NewRouter()
	poster := &fakePoster{}
	r.Attach(poster)

	require.NoError(t, r.PostMessage(CommandConfigSaved, nil))
	msg, ok := poster.find(CommandConfigSaved)
	require.True(t, ok)
	assert.Nil(t, msg.Data)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"command":"configSaved"}`, string(raw))
}
