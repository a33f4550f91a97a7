package engine

import (
	"maps"
	"strings"

	"github.com/google/uuid"
)

type PlayerState string

const (
	PlayerIdle     PlayerState = "Idle"
	PlayerPlaying  PlayerState = "Playing"
	PlayerBlocked  PlayerState = "Blocked"
	PlayerFinished PlayerState = "Finished"
)

// MaxHitsPerTurn is the number of darts in one turn.
const MaxHitsPerTurn = 3

// Player is owned by a Game; only its Rules mutate Score.
type Player struct {
	ID    string
	Name  string
	Score map[string]int
	Hits  []string
	State PlayerState
}

func NewPlayer(name string) *Player {
	return &Player{
		ID:    strings.ReplaceAll(uuid.NewString(), "-", ""),
		Name:  name,
		Score: map[string]int{},
		Hits:  []string{},
		State: PlayerIdle,
	}
}

func (p *Player) clone() Player {
	return Player{
		ID:    p.ID,
		Name:  p.Name,
		Score: maps.Clone(p.Score),
		Hits:  append([]string{}, p.Hits...),
		State: p.State,
	}
}

// canThrow reports whether the player may throw another dart this turn.
func (p *Player) canThrow() bool {
	return p.State == PlayerPlaying && len(p.Hits) < MaxHitsPerTurn
}
