package roster

import (
	"context"
	"slices"

	"go.uber.org/zap"
)

// Saver writes rosters to a Store on its own goroutine. Only the newest
// pending roster is kept, so Submit never waits for the database.
type Saver struct {
	store   Store
	pending chan []string
	log     *zap.Logger
}

func NewSaver(store Store, logger *zap.Logger) *Saver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saver{store: store, pending: make(chan []string, 1), log: logger}
}

// Submit queues names, replacing any roster not yet written. It must be
// called from a single goroutine.
func (s *Saver) Submit(names []string) {
	names = slices.Clone(names)
	select {
	case s.pending <- names:
		return
	default:
	}
	select {
	case <-s.pending:
	default:
	}
	s.pending <- names
}

// Run writes submitted rosters until ctx is done, then flushes whatever is
// still pending.
func (s *Saver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			select {
			case names := <-s.pending:
				s.save(context.WithoutCancel(ctx), names)
			default:
			}
			return nil
		case names := <-s.pending:
			s.save(ctx, names)
		}
	}
}

func (s *Saver) save(ctx context.Context, names []string) {
	if err := s.store.Save(ctx, names); err != nil {
		s.log.Error("roster not saved", zap.Error(err), zap.Strings("names", names))
		return
	}
	s.log.Debug("roster saved", zap.Int("players", len(names)))
}
