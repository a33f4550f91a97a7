// Package board reads hit tokens from the dartboard controller. The
// controller writes one ASCII token per line over a serial link.
package board

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.bug.st/serial"
	"go.uber.org/zap"

	"github.com/DoyleJ11/darts-scoreboard/internal/engine"
)

const DefaultBaudRate = 9600

// Opener opens the line the tokens arrive on.
type Opener func() (io.ReadCloser, error)

func SerialOpener(device string, baud int) Opener {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	return func() (io.ReadCloser, error) {
		port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", device, err)
		}
		return port, nil
	}
}

// Sink receives every recognised token in arrival order.
type Sink func(ctx context.Context, token string) error

type Reader struct {
	Open   Opener
	Sink   Sink
	Logger *zap.Logger
	// NewBackOff paces reopen attempts; nil means exponential.
	NewBackOff func() backoff.BackOff
}

type sinkError struct{ err error }

func (e sinkError) Error() string { return "forward token: " + e.err.Error() }
func (e sinkError) Unwrap() error { return e.err }

// Run reads until ctx is done, reopening the line whenever it fails. It
// only returns an error when the sink refuses a token.
func (r *Reader) Run(ctx context.Context) error {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	newBackOff := r.NewBackOff
	if newBackOff == nil {
		newBackOff = func() backoff.BackOff { return backoff.NewExponentialBackOff() }
	}

	for {
		port, err := backoff.Retry(ctx, func() (io.ReadCloser, error) { return r.Open() },
			backoff.WithBackOff(newBackOff()),
			backoff.WithMaxElapsedTime(0),
			backoff.WithNotify(func(err error, next time.Duration) {
				log.Warn("board unavailable", zap.Error(err), zap.Duration("retry_in", next))
			}),
		)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		log.Info("board connected")

		err = r.consume(ctx, port, log)
		_ = port.Close()
		if ctx.Err() != nil {
			return nil
		}
		var se sinkError
		if errors.As(err, &se) {
			return se
		}
		log.Warn("board disconnected", zap.Error(err))
	}
}

func (r *Reader) consume(ctx context.Context, port io.ReadCloser, log *zap.Logger) error {
	// Closing the port is the only way to unblock a pending read.
	stop := context.AfterFunc(ctx, func() { _ = port.Close() })
	defer stop()

	sc := bufio.NewScanner(port)
	for sc.Scan() {
		token := strings.TrimSpace(sc.Text())
		if token == "" {
			continue
		}
		if _, ok := engine.ResolveHit(token); !ok {
			log.Debug("skipping unknown token", zap.String("token", token))
			continue
		}
		log.Debug("hit", zap.String("token", token))
		if err := r.Sink(ctx, token); err != nil {
			return sinkError{err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return io.EOF
}
