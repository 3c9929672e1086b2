package topics

import (
	"github.com/nfrund/fogwar/internal/modules/wargame/events"
	"github.com/nfrund/fogwar/internal/pubsub"
)

var (
	TurnChange = pubsub.NewEvent[events.TurnChange](
		"wargame.turn.change",
		"A player's turn ended and the next player is up",
	)

	GameStart = pubsub.NewEvent[events.GameStart](
		"wargame.game.start",
		"The deployment phase ended and turns are running",
	)

	GameReset = pubsub.NewEvent[events.GameReset](
		"wargame.game.reset",
		"The map was backed up and reloaded from the default map",
	)

	UnitDestroyed = pubsub.NewEvent[events.UnitDestroyed](
		"wargame.unit.destroyed",
		"A unit was removed from play",
	)
)
