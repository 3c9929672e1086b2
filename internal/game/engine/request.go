package engine

import (
	"github.com/nfrund/fogwar/internal/game/changes"
	"github.com/nfrund/fogwar/internal/game/stats"
	"github.com/nfrund/fogwar/internal/game/world"
)

// Request types.
const (
	RequestSync       = "sync"
	RequestTurnChange = "turnChange"
)

// Request is one client call.
type Request struct {
	RequestType string           `json:"requestType" validate:"required,oneof=sync turnChange"`
	Username    string           `json:"username" validate:"required"`
	Password    string           `json:"password"`
	Changes     []changes.Change `json:"changes"`
	FirstSync   bool             `json:"firstSync"`
}

// MapState is the part of the world a user is shown.
type MapState struct {
	Units       []*world.Unit     `json:"units"`
	Airfields   []*world.Airfield `json:"airfields"`
	CurrentTime int               `json:"currentTime"`
	GameStarted bool              `json:"gameStarted"`
}

// Response is sent back for every accepted request. UnitTypes is only filled
// for the admin and StatsData only on a first sync.
type Response struct {
	MapState       MapState `json:"mapState"`
	AnyChanges     bool     `json:"anyChanges"`
	Notifications  []string `json:"notifications"`
	NextTurnChange int64    `json:"nextTurnChange"`
	IsCorrectTurn  bool     `json:"isCorrectTurn"`
	TurnTime       int64    `json:"turnTime"`

	UsersList []string    `json:"usersList,omitempty"`
	UnitTypes []string    `json:"unitTypes,omitempty"`
	StatsData *stats.Data `json:"statsData,omitempty"`
}
