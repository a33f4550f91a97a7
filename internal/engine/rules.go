package engine

import (
	"fmt"
	"slices"
)

// Rules is one scoring variant. ProcessHit is only called with the active
// player and returns StateFinished when that dart ended the game.
type Rules interface {
	Mode() Mode
	InitPlayer(p *Player)
	ProcessHit(p *Player, hit HitValue) RunState
}

var modes = map[Mode]func(Options) Rules{
	ModeStandard: func(o Options) Rules { return NewStandard(o.StandardStart) },
	ModeCricket:  func(Options) Rules { return Cricket{} },
}

func NewRules(mode Mode, opts Options) (Rules, error) {
	build, ok := modes[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return build(opts), nil
}

// Modes lists the selectable modes, sorted.
func Modes() []Mode {
	out := make([]Mode, 0, len(modes))
	for m := range modes {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

func resetPlayer(p *Player, score map[string]int) {
	p.Hits = []string{}
	p.State = PlayerIdle
	p.Score = score
}
