package board

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu     sync.Mutex
	tokens []string
	notify chan struct{}
}

func newCollector() *collector { return &collector{notify: make(chan struct{}, 16)} }

func (c *collector) sink(_ context.Context, token string) error {
	c.mu.Lock()
	c.tokens = append(c.tokens, token)
	c.mu.Unlock()
	c.notify <- struct{}{}
	return nil
}

func (c *collector) wait(t *testing.T, n int) []string {
	t.Helper()
	for {
		c.mu.Lock()
		got := append([]string{}, c.tokens...)
		c.mu.Unlock()
		if len(got) >= n {
			return got
		}
		select {
		case <-c.notify:
		case <-time.After(time.Second):
			t.Fatalf("timed out with %v", got)
		}
	}
}

func fastBackOff() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }

func TestReader_ForwardsKnownTokens(t *testing.T) {
	pr, pw := io.Pipe()
	c := newCollector()
	r := &Reader{
		Open:       func() (io.ReadCloser, error) { return pr, nil },
		Sink:       c.sink,
		NewBackOff: fastBackOff,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	_, err := io.WriteString(pw, "20x3\r\n_40\n\nMi")
	require.NoError(t, err)
	_, err = io.WriteString(pw, "ss\nBullseye\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"20x3", "Miss", "Bullseye"}, c.wait(t, 3))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reader did not stop")
	}
}

func TestReader_ReopensAfterFailure(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	open := func() (io.ReadCloser, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		switch calls {
		case 1:
			return nil, errors.New("no such device")
		case 2:
			return io.NopCloser(strings.NewReader("1o\n")), nil
		case 3:
			return io.NopCloser(strings.NewReader("2x2\n")), nil
		default:
			return nil, errors.New("unplugged")
		}
	}

	c := newCollector()
	r := &Reader{Open: open, Sink: c.sink, NewBackOff: fastBackOff}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	assert.Equal(t, []string{"1o", "2x2"}, c.wait(t, 2))
	cancel()
	assert.NoError(t, <-done)
}

func TestReader_StopsWhenSinkFails(t *testing.T) {
	closed := errors.New("closed")
	r := &Reader{
		Open:       func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader("5o\n")), nil },
		Sink:       func(context.Context, string) error { return closed },
		NewBackOff: fastBackOff,
	}

	err := r.Run(context.Background())
	assert.ErrorIs(t, err, closed)
}
