package events

// TurnChange is published when a player's turn ends, either because they
// submitted it or because the referee skipped an overdue player.
type TurnChange struct {
	User        string `json:"user"`
	NextUser    string `json:"nextUser"`
	Deadline    int64  `json:"deadline"`
	CurrentTime int    `json:"currentTime"`
	Missed      bool   `json:"missed"`
	Timestamp   string `json:"timestamp"`
}

// GameStart is published when the deployment phase ends.
type GameStart struct {
	Players     []string `json:"players"`
	FirstUser   string   `json:"firstUser"`
	Deadline    int64    `json:"deadline"`
	CurrentTime int      `json:"currentTime"`
	Timestamp   string   `json:"timestamp"`
}

// GameReset is published after the map was reloaded.
type GameReset struct {
	Backup    string `json:"backup"`
	Timestamp string `json:"timestamp"`
}

// UnitDestroyed is published for every unit removed by combat or by failing
// to find an airfield.
type UnitDestroyed struct {
	UnitID      int    `json:"unitID"`
	UnitType    string `json:"unitType"`
	Owner       string `json:"owner"`
	DestroyedBy string `json:"destroyedBy"`
	Timestamp   string `json:"timestamp"`
}
