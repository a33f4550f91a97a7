package engine

// NoActive marks a table with nobody at the oche.
const NoActive = -1

// NextTurn hands the turn to the next player and returns the new active
// index. ok is false when nobody could be promoted; the returned index is
// then NoActive and no player is Playing.
//
// The previous active player goes back to Idle unless Finished. Seats are
// scanned from the one after the active seat, wrapping, and the first Idle
// player is promoted. With a single seat the seat after the active one is
// itself. Promoting seat 0 starts a new leg and clears every hits buffer.
func NextTurn(players []*Player, active int) (next int, ok bool) {
	n := len(players)
	if n == 0 {
		return NoActive, false
	}

	if active == NoActive {
		promote(players, 0)
		return 0, true
	}

	if players[active].State != PlayerFinished {
		players[active].State = PlayerIdle
	}
	next = scanIdle(players, active)
	if next == NoActive {
		return NoActive, false
	}
	promote(players, next)
	return next, true
}

func promote(players []*Player, i int) {
	players[i].State = PlayerPlaying
	if i == 0 {
		for _, p := range players {
			p.Hits = []string{}
		}
	}
}

// scanIdle finds the first Idle seat after from, or NoActive.
func scanIdle(players []*Player, from int) int {
	n := len(players)
	seats := n - 1
	if n == 1 {
		seats = 1
	}
	for off := 1; off <= seats; off++ {
		i := (from + off) % n
		if players[i].State == PlayerIdle {
			return i
		}
	}
	return NoActive
}
