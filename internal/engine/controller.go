package engine

import (
	"fmt"
	"strings"

	"github.com/DoyleJ11/darts-scoreboard/pkg/types"
)

// Controller is the single game of the process. It is not safe for
// concurrent use; the lobby serialises every call.
type Controller struct {
	opts    Options
	game    *Game
	state   RunState
	lastHit *string
}

func NewController(mode Mode, opts Options) (*Controller, error) {
	rules, err := NewRules(mode, opts)
	if err != nil {
		return nil, err
	}
	return &Controller{opts: opts, game: NewGame(rules), state: StateIdle}, nil
}

func (c *Controller) State() RunState { return c.state }

func (c *Controller) Mode() Mode { return c.game.Mode() }

// Game exposes the current table, mainly for tests and read-only views.
func (c *Controller) Game() *Game { return c.game }

func (c *Controller) PlayerNames() []string { return c.game.Names() }

// Apply runs one command against the game.
func (c *Controller) Apply(cmd Command) error {
	switch cmd.Type {
	case CmdAddPlayer:
		return c.AddPlayer(cmd.Name)
	case CmdRemovePlayer:
		return c.RemovePlayer(cmd.PlayerID)
	case CmdChangeMode:
		return c.ChangeMode(cmd.Mode)
	case CmdStartGame:
		return c.StartGame()
	case CmdNextPlayer:
		return c.NextPlayer()
	case CmdRecordHit:
		c.ProcessHit(cmd.Hit)
		return nil
	case CmdMiss:
		c.ProcessMiss()
		return nil
	case CmdResetGame:
		c.ResetGame()
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedCommand, cmd.Type)
	}
}

// StartGame hands out the first turn. A finished game is reset first; a
// running one simply moves on to the next player.
func (c *Controller) StartGame() error {
	if c.state == StateFinished {
		c.ResetGame()
	}
	if len(c.game.Players()) == 0 {
		return ErrNoPlayers
	}
	if !c.game.NextPlayer() {
		c.state = StateFinished
		return nil
	}
	c.state = StateRunning
	return nil
}

// ProcessHit records the token for display and scores it while running.
func (c *Controller) ProcessHit(token string) {
	c.lastHit = &token
	if c.state != StateRunning {
		return
	}
	c.state = c.game.ProcessHitMessage(token)
}

func (c *Controller) ProcessMiss() { c.ProcessHit(TokenMiss) }

func (c *Controller) AddPlayer(name string) error {
	if c.state == StateRunning {
		return ErrGameRunning
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	c.game.AddPlayer(name)
	return nil
}

// RemovePlayer may be called at any time. If the removed player had the
// turn and nobody can take it over, a running game ends.
func (c *Controller) RemovePlayer(id string) error {
	wasActive, handedOff, err := c.game.RemovePlayer(id)
	if err != nil {
		return fmt.Errorf("remove %q: %w", id, err)
	}
	if c.state != StateRunning {
		return nil
	}
	switch {
	case len(c.game.Players()) == 0:
		c.state = StateIdle
	case wasActive && !handedOff:
		c.state = StateFinished
	}
	return nil
}

// NextPlayer passes the turn by hand. A table where nobody can take the
// turn any more is finished.
func (c *Controller) NextPlayer() error {
	if c.state != StateRunning {
		return ErrGameNotRunning
	}
	if !c.game.NextPlayer() {
		c.state = StateFinished
	}
	return nil
}

func (c *Controller) ResetGame() {
	c.lastHit = nil
	c.state = StateIdle
	c.game.ResetPlayers()
}

// ChangeMode starts an idle game of another mode with the same player
// names. Ids, scores and hits are not carried over.
func (c *Controller) ChangeMode(mode Mode) error {
	rules, err := NewRules(mode, c.opts)
	if err != nil {
		return err
	}
	next := NewGame(rules)
	for _, name := range c.game.Names() {
		next.AddPlayer(name)
	}
	c.game = next
	c.state = StateIdle
	c.lastHit = nil
	return nil
}

// Snapshot returns a deep copy that is safe to hand to other goroutines.
func (c *Controller) Snapshot() types.Snapshot {
	snap := types.Snapshot{
		Running:   c.state == StateRunning,
		GameState: string(c.state),
		GameMode:  string(c.game.Mode()),
		Players:   make([]types.Player, 0, len(c.game.Players())),
	}
	if c.lastHit != nil {
		hit := *c.lastHit
		snap.LastHit = &hit
	}
	for _, p := range c.game.Players() {
		cp := p.clone()
		snap.Players = append(snap.Players, types.Player{
			ID:    cp.ID,
			Name:  cp.Name,
			Score: cp.Score,
			Hits:  cp.Hits,
			State: string(cp.State),
		})
	}
	return snap
}
