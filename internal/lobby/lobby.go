package lobby

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/DoyleJ11/darts-scoreboard/internal/engine"
	"github.com/DoyleJ11/darts-scoreboard/pkg/types"
)

var ErrClosed = errors.New("lobby closed")

type Msg interface{ isLobbyMsg() }

// FromClient carries one command. ClientID is empty for commands that do
// not come from a subscriber (the serial reader); rejections are then only
// logged.
type FromClient struct {
	ClientID string
	Cmd      engine.Command
}

func (FromClient) isLobbyMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

// Snapshot is what a subscriber receives. Error is set instead of State
// when one of that client's own commands was rejected.
type Snapshot struct {
	Version int
	State   types.Snapshot
	Error   string
}

type View struct {
	Version    int
	NumClients int
	State      types.Snapshot
}

type Option func(*Lobby)

func WithLogger(logger *zap.Logger) Option {
	return func(l *Lobby) { l.log = logger }
}

// WithRosterHook registers fn to be called, on the lobby goroutine, with
// the player names after every successful roster change. fn must not block.
func WithRosterHook(fn func(names []string)) Option {
	return func(l *Lobby) { l.onRoster = fn }
}

type Lobby struct {
	inbox    chan Msg
	ctrl     *engine.Controller
	version  int
	clients  map[string]chan Snapshot
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	log      *zap.Logger
	onRoster func([]string)
}

// NewLobby starts the goroutine that owns ctrl. Nothing else may touch ctrl
// afterwards.
func NewLobby(parent context.Context, ctrl *engine.Controller, opts ...Option) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	l := &Lobby{
		inbox:   make(chan Msg, 64), // Small buffer
		ctrl:    ctrl,
		version: 0,
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}

	go l.loop()
	return l
}

func (l *Lobby) loop() {
	defer close(l.done)
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				l.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: l.version, State: l.ctrl.Snapshot()}
				l.log.Debug("client joined", zap.String("client", msg.ClientID), zap.Int("clients", len(l.clients)))

			case Leave:
				if ch, ok := l.clients[msg.ClientID]; ok {
					close(ch)
					delete(l.clients, msg.ClientID)
					l.log.Debug("client left", zap.String("client", msg.ClientID), zap.Int("clients", len(l.clients)))
				}

			case FromClient:
				l.apply(msg)

			case GetState:
				msg.Reply <- View{
					Version:    l.version,
					NumClients: len(l.clients),
					State:      l.ctrl.Snapshot(),
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Lobby) apply(msg FromClient) {
	if err := l.ctrl.Apply(msg.Cmd); err != nil {
		l.log.Info("command rejected",
			zap.String("command", string(msg.Cmd.Type)),
			zap.String("client", msg.ClientID),
			zap.Error(err))
		l.reject(msg.ClientID, err)
		return
	}

	l.version++
	l.log.Debug("command applied",
		zap.String("command", string(msg.Cmd.Type)),
		zap.Int("version", l.version),
		zap.String("state", string(l.ctrl.State())))
	l.broadcast(Snapshot{Version: l.version, State: l.ctrl.Snapshot()})

	if l.onRoster != nil && msg.Cmd.ChangesRoster() {
		l.onRoster(l.ctrl.PlayerNames())
	}
}

func (l *Lobby) reject(clientID string, err error) {
	ch, ok := l.clients[clientID]
	if !ok {
		return
	}
	select {
	case ch <- Snapshot{Version: l.version, Error: err.Error()}:
	default:
		l.drop(clientID, ch)
	}
}

func (l *Lobby) shutdown() {
	for id, ch := range l.clients {
		close(ch) // Tell client no more snapshots
		delete(l.clients, id)
	}
	l.cancel()
}

func (l *Lobby) broadcast(snap Snapshot) {
	for id, ch := range l.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			l.drop(id, ch)
		}
	}
}

func (l *Lobby) drop(id string, ch chan Snapshot) {
	close(ch)
	delete(l.clients, id)
	l.log.Warn("dropping slow client", zap.String("client", id))
}

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

// Send queues m, giving up when ctx ends or the lobby has stopped.
func (l *Lobby) Send(ctx context.Context, m Msg) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}
	select {
	case l.inbox <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrClosed
	}
}

// State asks the lobby goroutine for the current view.
func (l *Lobby) State(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := l.Send(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-l.done:
		return View{}, ErrClosed
	}
}

// Done is closed once the lobby goroutine has exited.
func (l *Lobby) Done() <-chan struct{} { return l.done }
