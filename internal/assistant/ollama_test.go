package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	stdout []byte
	err    error

	gotName string
	gotArgs []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.gotName = name
	f.gotArgs = args
	return f.stdout, nil, f.err
}

func TestClientExtract(t *testing.T) {
	t.Run("successful reply", func(t *testing.T) {
		r := &fakeRunner{stdout: []byte(`{"amount": 42.75, "date": "2024-03-04", "category": "Food", "note": "Lunch"}`)}
		c := NewClient(Config{Model: "llama3"}, r, nil)

		fields, err := c.Extract(context.Background(), "some receipt text")
		require.NoError(t, err)
		require.NotNil(t, fields.Amount)
		assert.InDelta(t, 42.75, *fields.Amount, 1e-9)

		assert.Equal(t, "ollama", r.gotName)
		require.Len(t, r.gotArgs, 3)
		assert.Equal(t, "run", r.gotArgs[0])
		assert.Equal(t, "llama3", r.gotArgs[1])
		assert.Contains(t, r.gotArgs[2], "some receipt text")
	})

	t.Run("exec failure surfaces as error", func(t *testing.T) {
		r := &fakeRunner{err: errors.New("executable file not found")}
		c := NewClient(Config{}, r, nil)

		_, err := c.Extract(context.Background(), "text")
		assert.Error(t, err)
	})

	t.Run("garbage reply surfaces as error", func(t *testing.T) {
		r := &fakeRunner{stdout: []byte("I am not JSON")}
		c := NewClient(Config{}, r, nil)

		_, err := c.Extract(context.Background(), "text")
		assert.Error(t, err)
	})

	t.Run("defaults applied", func(t *testing.T) {
		c := NewClient(Config{}, &fakeRunner{err: errors.New("x")}, nil)
		assert.Equal(t, "ollama", c.cfg.Binary)
		assert.Equal(t, "llama3", c.cfg.Model)
		assert.Equal(t, 15*time.Second, c.cfg.Timeout)
	})
}
