package engine

import "strconv"

// CricketSegments are the segments a player has to close.
var CricketSegments = []int{15, 16, 17, 18, 19, 20, 25}

// CricketCloseMarks is the count at which a segment is closed.
const CricketCloseMarks = 3

// Cricket counts marks on 15-20 and the bull. Points are never scored; the
// first player with every segment closed wins.
type Cricket struct{}

func (Cricket) Mode() Mode { return ModeCricket }

func (Cricket) InitPlayer(p *Player) {
	score := map[string]int{PointsKey: 0}
	for _, seg := range CricketSegments {
		score[strconv.Itoa(seg)] = 0
	}
	resetPlayer(p, score)
}

func (Cricket) ProcessHit(p *Player, hit HitValue) RunState {
	if !p.canThrow() {
		return StateRunning
	}
	p.Hits = append(p.Hits, hit.String())

	key := strconv.Itoa(hit.Base)
	if marks, ok := p.Score[key]; ok {
		p.Score[key] = marks + hit.Multiplier
		if allClosed(p.Score) {
			p.State = PlayerFinished
			return StateFinished
		}
	}

	if len(p.Hits) >= MaxHitsPerTurn {
		p.State = PlayerBlocked
	}
	return StateRunning
}

func allClosed(score map[string]int) bool {
	for key, marks := range score {
		if key != PointsKey && marks < CricketCloseMarks {
			return false
		}
	}
	return true
}
