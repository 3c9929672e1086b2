package registry

import (
	"github.com/nfrund/fogwar/internal/game/engine"
	"github.com/nfrund/fogwar/internal/game/stats"
	"github.com/nfrund/fogwar/internal/hub"
	"github.com/nfrund/fogwar/internal/pubsub"
)

// Service keys shared between modules. Using constants prevents typos.
const (
	GameKey       Key[*engine.Game]      = "wargame.game"
	CatalogKey    Key[*stats.Reloadable] = "wargame.catalog"
	TurnFeedKey   Key[*hub.Hub]          = "wargame.turnfeed"
	PublisherKey  Key[pubsub.Publisher]  = "core.publisher"
	SubscriberKey Key[pubsub.Subscriber] = "core.subscriber"
)
