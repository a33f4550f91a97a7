package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/darts-scoreboard/internal/engine"
	"github.com/DoyleJ11/darts-scoreboard/internal/lobby"
	"github.com/DoyleJ11/darts-scoreboard/pkg/types"
)

const writeTimeout = 3 * time.Second

type Options struct {
	// OriginPatterns are passed to websocket.Accept. Empty means same-origin only.
	OriginPatterns []string
	Logger         *zap.Logger
}

func Handler(lb *lobby.Lobby, opts Options) http.HandlerFunc {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			logger.Warn("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		log := logger.With(zap.String("client", clientID), zap.String("remote", r.RemoteAddr))

		out := make(chan lobby.Snapshot, 8)
		if err := lb.Send(r.Context(), lobby.Join{ClientID: clientID, Outbox: out}); err != nil {
			conn.Close(websocket.StatusGoingAway, "game closed")
			return
		}
		log.Info("subscriber connected")
		defer func() {
			_ = lb.Send(context.Background(), lobby.Leave{ClientID: clientID})
			log.Info("subscriber disconnected")
		}()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				if err := writeJSON(writeCtx, conn, frame(snap)); err != nil {
					log.Warn("write failed", zap.Error(err))
					conn.Close(websocket.StatusInternalError, "write failed")
					return
				}
			}
			// The lobby closed our outbox: too slow or shutting down.
			conn.Close(websocket.StatusTryAgainLater, "dropped")
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					if !errors.Is(err, context.Canceled) {
						log.Debug("read ended", zap.Error(err))
					}
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = writeJSON(r.Context(), conn, types.ServerMessage{Type: types.MsgError, Error: "bad json"})
				continue
			}

			cmds := toEngineCommands(cm)
			if len(cmds) == 0 {
				_ = writeJSON(r.Context(), conn, types.ServerMessage{Type: types.MsgError, Error: "unknown message"})
				continue
			}

			for _, cmd := range cmds {
				if err := lb.Send(r.Context(), lobby.FromClient{ClientID: clientID, Cmd: cmd}); err != nil {
					return
				}
			}
		}
	}
}

func frame(snap lobby.Snapshot) types.ServerMessage {
	if snap.Error != "" {
		return types.ServerMessage{Type: types.MsgError, Version: snap.Version, Error: snap.Error}
	}
	return types.ServerMessage{Type: types.MsgStateSnapshot, Version: snap.Version, State: &snap.State}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}

// toEngineCommands maps the display's key-based message onto commands, in
// the order the keys are handled.
func toEngineCommands(m types.ClientMessage) []engine.Command {
	var cmds []engine.Command
	if m.GameMode != nil {
		cmds = append(cmds, engine.Command{Type: engine.CmdChangeMode, Mode: engine.Mode(*m.GameMode)})
	}
	if m.StartGame != nil {
		cmds = append(cmds, engine.Command{Type: engine.CmdStartGame})
	}
	if m.NextPlayer != nil {
		cmds = append(cmds, engine.Command{Type: engine.CmdNextPlayer})
	}
	if m.NewPlayer != nil {
		cmds = append(cmds, engine.Command{Type: engine.CmdAddPlayer, Name: *m.NewPlayer})
	}
	if m.RemovePlayer != nil {
		cmds = append(cmds, engine.Command{Type: engine.CmdRemovePlayer, PlayerID: *m.RemovePlayer})
	}
	if m.MissHit != nil {
		cmds = append(cmds, engine.Command{Type: engine.CmdMiss})
	}
	if m.ResetScore != nil {
		cmds = append(cmds, engine.Command{Type: engine.CmdResetGame})
	}
	if m.Hit != nil {
		cmds = append(cmds, engine.Command{Type: engine.CmdRecordHit, Hit: *m.Hit})
	}
	return cmds
}
