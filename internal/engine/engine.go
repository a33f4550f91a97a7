package engine

import (
	"errors"
	"fmt"
)

var ErrGameRunning = errors.New("game is running")
var ErrGameNotRunning = errors.New("game is not running")
var ErrPlayerNotFound = errors.New("player not found")
var ErrUnknownMode = errors.New("unknown game mode")
var ErrInvalidName = errors.New("invalid player name")
var ErrNoPlayers = errors.New("no players")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Mode string

const (
	ModeStandard Mode = "Standard"
	ModeCricket  Mode = "Cricket"
)

func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if _, ok := modes[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// RunState is the coarse state of the whole game.
type RunState string

const (
	StateIdle     RunState = "Idle"
	StateRunning  RunState = "Running"
	StateFinished RunState = "Finished"
)

type CommandType string

const (
	CmdAddPlayer    CommandType = "AddPlayer"
	CmdRemovePlayer CommandType = "RemovePlayer"
	CmdChangeMode   CommandType = "ChangeMode"
	CmdStartGame    CommandType = "StartGame"
	CmdNextPlayer   CommandType = "NextPlayer"
	CmdRecordHit    CommandType = "RecordHit"
	CmdMiss         CommandType = "Miss"
	CmdResetGame    CommandType = "ResetGame"
)

/*
	CmdAddPlayer    -> Name      (rejected while Running)
	CmdRemovePlayer -> PlayerID
	CmdChangeMode   -> Mode      (keeps names, back to Idle)
	CmdStartGame    -> resets a Finished game, then hands out the first turn
	CmdNextPlayer   -> manual advance, Running only
	CmdRecordHit    -> Hit token; unknown tokens only update the last hit
	CmdMiss         -> same as RecordHit "Miss"
	CmdResetGame    -> wipes scores, keeps players
*/

type Command struct {
	Type     CommandType
	Name     string
	PlayerID string
	Mode     Mode
	Hit      string
}

// ChangesRoster reports whether applying the command can change the list
// of player names.
func (c Command) ChangesRoster() bool {
	return c.Type == CmdAddPlayer || c.Type == CmdRemovePlayer
}

// Options tune the rule variants.
type Options struct {
	// StandardStart is the countdown start; zero means DefaultStandardStart.
	StandardStart int
}
