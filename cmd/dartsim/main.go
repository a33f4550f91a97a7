// Command dartsim throws random darts at a running scoreboard, standing in
// for the board hardware while developing the display.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/darts-scoreboard/internal/engine"
	"github.com/DoyleJ11/darts-scoreboard/internal/logging"
	"github.com/DoyleJ11/darts-scoreboard/pkg/types"
)

type CLI struct {
	URL      string        `default:"ws://localhost:50001/ws" help:"Scoreboard websocket URL"`
	Interval time.Duration `default:"1s" help:"Pause between darts"`
	Count    int           `default:"0" help:"Darts to throw (0 = until interrupted)"`
	Seed     uint64        `default:"0" help:"Random seed (0 for current time)"`
	Start    bool          `help:"Send startGame before throwing"`
	Advance  bool          `default:"true" negatable:"" help:"Pass the turn after every third dart"`
	Verbose  bool          `short:"v" help:"Log every snapshot received"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("dartsim"),
		kong.Description("Throw random darts at a scoreboard server"),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(cli.Run())
}

func (c *CLI) Run() error {
	level := "info"
	if c.Verbose {
		level = "debug"
	}
	logger, err := logging.New(level, true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, _, err := websocket.Dial(ctx, c.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.URL, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	go drain(ctx, conn, logger)

	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	tokens := engine.HitTokens()

	if c.Start {
		if err := send(ctx, conn, map[string]any{"startGame": true}); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()
	for thrown := 0; c.Count == 0 || thrown < c.Count; thrown++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		token := tokens[rng.IntN(len(tokens))]
		logger.Info("throw", zap.String("token", token), zap.Int("dart", thrown+1))
		if err := send(ctx, conn, map[string]any{"hit": token}); err != nil {
			return err
		}
		if c.Advance && (thrown+1)%engine.MaxHitsPerTurn == 0 {
			if err := send(ctx, conn, map[string]any{"nextPlayer": true}); err != nil {
				return err
			}
		}
	}
	return nil
}

func send(ctx context.Context, conn *websocket.Conn, msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// drain keeps reading so the connection stays healthy and control frames
// are answered.
func drain(ctx context.Context, conn *websocket.Conn, logger *zap.Logger) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var msg types.ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		switch {
		case msg.Type == types.MsgError:
			logger.Warn("server rejected command", zap.String("error", msg.Error))
		case msg.State != nil:
			logger.Debug("snapshot",
				zap.Int("version", msg.Version),
				zap.String("state", msg.State.GameState))
		}
	}
}
