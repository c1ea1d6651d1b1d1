package projection

import (
	"context"

	"go.uber.org/zap"

	"github.com/Shukladev7/escalation-tracker/internal/events"
)

// RegisterFeedPublisher forwards domain events onto the change feed so remote
// subscribers learn which collection to re-read. Publish failures are logged
// only; the triggering mutation is already durable.
func RegisterFeedPublisher(dispatcher events.Dispatcher, feed ChangeFeed, logger *zap.Logger) {
	forward := func(collection string) events.EventHandler {
		return func(ctx context.Context, event events.Event) error {
			if err := feed.Publish(ctx, collection); err != nil {
				logger.Warn("change feed publish failed",
					zap.String("collection", collection),
					zap.String("event_type", string(event.Type)),
					zap.Error(err))
			}
			return nil
		}
	}

	dispatcher.Subscribe(events.EventEscalationCreated, forward(CollectionEscalations))
	dispatcher.Subscribe(events.EventStatusUpdated, forward(CollectionEscalations))
	dispatcher.Subscribe(events.EventCommentAdded, forward(CollectionEscalations))
	dispatcher.Subscribe(events.EventTeamMemberAssigned, forward(CollectionEscalations))
	dispatcher.Subscribe(events.EventEndDateSet, forward(CollectionEscalations))
	dispatcher.Subscribe(events.EventEmployeeChanged, forward(CollectionEmployees))
	dispatcher.Subscribe(events.EventSettingsChanged, forward(CollectionSettings))
}
