package types

// Snapshot:
//   running: boolean
//   gameState: "Idle" | "Running" | "Finished"
//   lastHit: string | null   // display shows "Miss" when null
//   gameMode: "Standard" | "Cricket"
//   players: Player[]        // turn order
//
// Player:
//   id: string               // 32 hex chars
//   name: string
//   score: { [key]: number } // Standard: points; Cricket: points, "15".."20", "25"
//   hits: string[]           // current turn, at most 3, e.g. "20x3", "25", "0"
//   state: "Idle" | "Playing" | "Blocked" | "Finished"

type Snapshot struct {
	Running   bool     `json:"running"`
	GameState string   `json:"gameState"`
	LastHit   *string  `json:"lastHit"`
	GameMode  string   `json:"gameMode"`
	Players   []Player `json:"players"`
}

type Player struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Score map[string]int `json:"score"`
	Hits  []string       `json:"hits"`
	State string         `json:"state"`
}
