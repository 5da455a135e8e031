package commands

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"BinderKeeper/internal/config"

	"github.com/stretchr/testify/assert"
)

// fakeCmd — управляемая команда для проверки диспетчера.
type fakeCmd struct {
	name string
	err  error
}

func (f *fakeCmd) Name() string        { return f.name }
func (f *fakeCmd) Description() string { return "fake command for tests" }
func (f *fakeCmd) Usage() string       { return f.name + " <arg>" }
func (f *fakeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	return f.err
}

func captureOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := Out
	buf := &bytes.Buffer{}
	Out = buf
	t.Cleanup(func() { Out = prev })
	return buf
}

func TestDispatch_ExitCodes(t *testing.T) {
	RegisterCmd(&fakeCmd{name: "fake-ok"})
	RegisterCmd(&fakeCmd{name: "fake-usage", err: ErrUsage})
	RegisterCmd(&fakeCmd{name: "fake-fail", err: errors.New("boom")})
	cfg := &config.Config{}
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		captureOut(t)
		assert.Equal(t, 0, Dispatch(ctx, cfg, []string{"fake-ok"}))
	})

	t.Run("usage error prints usage and returns 2", func(t *testing.T) {
		buf := captureOut(t)
		assert.Equal(t, 2, Dispatch(ctx, cfg, []string{"fake-usage"}))
		assert.Contains(t, buf.String(), "Usage: fake-usage <arg>")
	})

	t.Run("runtime error returns 1", func(t *testing.T) {
		buf := captureOut(t)
		assert.Equal(t, 1, Dispatch(ctx, cfg, []string{"fake-fail"}))
		assert.Contains(t, buf.String(), "boom")
	})

	t.Run("unknown command returns 2 with global usage", func(t *testing.T) {
		buf := captureOut(t)
		assert.Equal(t, 2, Dispatch(ctx, cfg, []string{"no-such-command"}))
		assert.Contains(t, buf.String(), "Unknown command: no-such-command")
		assert.Contains(t, buf.String(), "BinderKeeper CLI")
	})

	t.Run("no args shows usage", func(t *testing.T) {
		buf := captureOut(t)
		assert.Equal(t, 2, Dispatch(ctx, cfg, nil))
		assert.Contains(t, buf.String(), "Commands:")
	})

	t.Run("command names are case-insensitive", func(t *testing.T) {
		captureOut(t)
		assert.Equal(t, 0, Dispatch(ctx, cfg, []string{"FAKE-OK"}))
	})
}

func TestDispatch_Help(t *testing.T) {
	RegisterCmd(&fakeCmd{name: "fake-help-target"})
	cfg := &config.Config{}
	ctx := context.Background()

	t.Run("bare help", func(t *testing.T) {
		buf := captureOut(t)
		assert.Equal(t, 0, Dispatch(ctx, cfg, []string{"help"}))
		assert.Contains(t, buf.String(), "BinderKeeper CLI")
	})

	t.Run("help for a command", func(t *testing.T) {
		buf := captureOut(t)
		assert.Equal(t, 0, Dispatch(ctx, cfg, []string{"help", "fake-help-target"}))
		assert.Contains(t, buf.String(), "Usage: fake-help-target <arg>")
	})

	t.Run("help for unknown command", func(t *testing.T) {
		buf := captureOut(t)
		assert.Equal(t, 2, Dispatch(ctx, cfg, []string{"help", "nope"}))
		assert.Contains(t, buf.String(), "Unknown command: nope")
	})
}

func TestRegistry(t *testing.T) {
	// зарегистрированные команды выдаются в алфавитном порядке
	list := List()
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Name(), list[i].Name())
	}

	_, ok := Get("binders")
	assert.True(t, ok, "built-in command must be registered")
}

func TestSplitTags(t *testing.T) {
	assert.Nil(t, splitTags(""))
	assert.Equal(t, []string{"a", "b"}, splitTags("a, b"))
	assert.Equal(t, []string{"one"}, splitTags(" one ,, "))
}
