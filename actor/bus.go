package actor

import (
	"fmt"
	"io"

	natsgo "github.com/nats-io/nats.go"

	"github.com/pokerledger/server/engine"
	"github.com/pokerledger/server/logging"
)

var busLogger = logging.GetZeroLogger("actor::bus", io.Discard)

// NatsBus publishes advisory events for a room, grounded on the reference
// server's NatsGame: one subject per room, `room.<id>.events`, published
// with the raw NATS client rather than request/reply since nothing blocks
// on delivery.
type NatsBus struct {
	nc      *natsgo.Conn
	marshal func(interface{}) ([]byte, error)
}

func NewNatsBus(url string, marshal func(interface{}) ([]byte, error)) (*NatsBus, error) {
	nc, err := natsgo.Connect(url)
	if err != nil {
		return nil, err
	}
	return &NatsBus{nc: nc, marshal: marshal}, nil
}

func subjectFor(roomID string) string {
	return fmt.Sprintf("room.%s.events", roomID)
}

// PublishEvents fires one NATS message per event. Publish failures are
// logged, never returned: the bus is advisory-only, and a lost advisory
// must never roll back or retry the transition that already committed.
func (b *NatsBus) PublishEvents(roomID string, events []engine.Event) {
	subject := subjectFor(roomID)
	for _, ev := range events {
		data, err := b.marshal(ev)
		if err != nil {
			busLogger.Error().Err(err).Str(logging.RoomIDKey, roomID).Msg("failed to marshal advisory event")
			continue
		}
		if err := b.nc.Publish(subject, data); err != nil {
			busLogger.Error().Err(err).Str(logging.RoomIDKey, roomID).Msg("failed to publish advisory event")
		}
	}
}

func (b *NatsBus) Close() {
	b.nc.Close()
}

// NoopBus discards every event. Used in tests and in deployments that run
// without NATS configured.
type NoopBus struct{}

func (NoopBus) PublishEvents(string, []engine.Event) {}
