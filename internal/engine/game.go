package engine

import (
	"slices"
)

// Game is one mode's table: the rules, the players in turn order and the
// index of the player at the oche.
type Game struct {
	rules   Rules
	players []*Player
	active  int
}

func NewGame(rules Rules) *Game {
	return &Game{rules: rules, active: NoActive}
}

func (g *Game) Mode() Mode { return g.rules.Mode() }

func (g *Game) AddPlayer(name string) *Player {
	p := NewPlayer(name)
	g.rules.InitPlayer(p)
	g.players = append(g.players, p)
	return p
}

// RemovePlayer drops the player with the given id. When that player had the
// turn it passes to the next Idle seat; handedOff is false if there was
// none, in which case no player is active.
func (g *Game) RemovePlayer(id string) (wasActive, handedOff bool, err error) {
	idx := g.indexOf(id)
	if idx < 0 {
		return false, false, ErrPlayerNotFound
	}
	g.players = slices.Delete(g.players, idx, idx+1)

	switch {
	case g.active == NoActive || idx > g.active:
		return false, false, nil
	case idx < g.active:
		g.active--
		return false, false, nil
	}

	g.active = NoActive
	n := len(g.players)
	for off := range n {
		i := (idx + off) % n
		if g.players[i].State == PlayerIdle {
			promote(g.players, i)
			g.active = i
			return true, true, nil
		}
	}
	return true, false, nil
}

func (g *Game) ResetPlayers() {
	g.active = NoActive
	for _, p := range g.players {
		g.rules.InitPlayer(p)
	}
}

// ProcessHitMessage scores a hit token for the active player. Unknown
// tokens and hits with nobody at the oche change nothing.
func (g *Game) ProcessHitMessage(token string) RunState {
	hit, ok := ResolveHit(token)
	if !ok || g.active == NoActive {
		return StateRunning
	}
	return g.rules.ProcessHit(g.players[g.active], hit)
}

// NextPlayer advances the turn. It returns false when nobody could take it.
func (g *Game) NextPlayer() bool {
	next, ok := NextTurn(g.players, g.active)
	g.active = next
	return ok
}

// Active returns the player whose turn it is, or nil.
func (g *Game) Active() *Player {
	if g.active == NoActive {
		return nil
	}
	return g.players[g.active]
}

func (g *Game) Players() []*Player { return g.players }

func (g *Game) Names() []string {
	names := make([]string, len(g.players))
	for i, p := range g.players {
		names[i] = p.Name
	}
	return names
}

func (g *Game) indexOf(id string) int {
	return slices.IndexFunc(g.players, func(p *Player) bool { return p.ID == id })
}
