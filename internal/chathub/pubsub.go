package chathub

import (
	"encoding/json"
	"log"

	"pairlink/backend/internal/storage"

	"github.com/redis/go-redis/v9"
)

// eventSubscriber is satisfied by the concrete storage service. Test
// doubles usually do not implement it, in which case the hub runs without
// the Redis bridge and relies on the local fallback path.
type eventSubscriber interface {
	SubscribeEvents() *redis.PubSub
}

// startPubSubListener subscribes to the shared broadcast channel and
// feeds incoming events into the delivery loop. Every broadcast arrives
// here, including ones originated by this process, which keeps the
// delivery path identical across single- and multi-process deployments.
func (m *Manager) startPubSubListener() {
	sub, ok := m.Storage.(eventSubscriber)
	if !ok {
		return
	}

	go func() {
		pubsub := sub.SubscribeEvents()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var evt storage.RoomEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.Printf("Error unmarshalling Redis event: %v", err)
				continue
			}
			m.pubSubCh <- evt
		}
	}()
}
