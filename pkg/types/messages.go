package types

import "encoding/json"

// Client -> Server
// One JSON object per message. Keys are handled in this order:
//   gameMode: "Standard" | "Cricket"
//   startGame: any
//   nextPlayer: any
//   newPlayer: string        // player name
//   removePlayer: string     // player id
//   missHit: any
//   resetScore: any
//   hit: string              // hit token, e.g. "20x3", "Bullseye"
// Flag keys act on presence; their value is ignored.

// Server -> Client
// StateSnapshot:
//   type: "StateSnapshot"
//   version: number
//   state: Snapshot
//
// Error:
//   type: "Error"
//   error: string

type ClientMessage struct {
	GameMode     *string         `json:"gameMode,omitempty"`
	StartGame    json.RawMessage `json:"startGame,omitempty"`
	NextPlayer   json.RawMessage `json:"nextPlayer,omitempty"`
	NewPlayer    *string         `json:"newPlayer,omitempty"`
	RemovePlayer *string         `json:"removePlayer,omitempty"`
	MissHit      json.RawMessage `json:"missHit,omitempty"`
	ResetScore   json.RawMessage `json:"resetScore,omitempty"`
	Hit          *string         `json:"hit,omitempty"`
}

const (
	MsgStateSnapshot = "StateSnapshot"
	MsgError         = "Error"
)

type ServerMessage struct {
	Type    string    `json:"type"` // "StateSnapshot" | "Error"
	Version int       `json:"version,omitempty"`
	State   *Snapshot `json:"state,omitempty"`
	Error   string    `json:"error,omitempty"`
}
