package realtime

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Emitter serializes outbound event payloads and fans them out through the
// Router. Payload structs carry their own "event" discriminator field.
type Emitter struct {
	router *Router
	log    *zap.Logger
}

func NewEmitter(router *Router, log *zap.Logger) *Emitter {
	return &Emitter{router: router, log: log}
}

// Room delivers payload to every connection in the room.
func (e *Emitter) Room(room string, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		e.log.Error("encode outbound event", zap.String("room", room), zap.Error(err))
		return
	}
	e.router.BroadcastRoom(room, b)
}

// All delivers payload to every connection in the process.
func (e *Emitter) All(payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		e.log.Error("encode outbound event", zap.Error(err))
		return
	}
	e.router.BroadcastAll(b)
}
