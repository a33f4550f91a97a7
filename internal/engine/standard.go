package engine

const DefaultStandardStart = 501

// PointsKey holds the running total in every score map.
const PointsKey = "points"

// Standard is the classic countdown: first to exactly zero wins, going
// below zero is a bust.
type Standard struct {
	StartPoints int
}

func NewStandard(start int) Standard {
	if start <= 0 {
		start = DefaultStandardStart
	}
	return Standard{StartPoints: start}
}

func (Standard) Mode() Mode { return ModeStandard }

func (s Standard) InitPlayer(p *Player) {
	resetPlayer(p, map[string]int{PointsKey: s.StartPoints})
}

func (Standard) ProcessHit(p *Player, hit HitValue) RunState {
	if !p.canThrow() {
		return StateRunning
	}
	p.Hits = append(p.Hits, hit.String())

	left := p.Score[PointsKey] - hit.Points()
	if left < 0 {
		// Bust: the turn is over and the score stands.
		p.State = PlayerBlocked
		return StateRunning
	}

	p.Score[PointsKey] = left
	if left == 0 {
		p.State = PlayerFinished
		return StateFinished
	}
	if len(p.Hits) == MaxHitsPerTurn {
		p.State = PlayerBlocked
	}
	return StateRunning
}
