package ecs

import (
	"github.com/phanxgames/arbor"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType carries every forwarded arbor event.
var InteractionEventType = events.NewEventType[arbor.InteractionEvent]()

// worldStore publishes a scene's interaction events into one world.
type worldStore struct {
	world donburi.World
	// only lists the forwarded event kinds; nil forwards all of them.
	only map[arbor.EventType]bool
}

// NewDonburiStore returns an EntityStore that publishes to world. With no
// kinds every event is forwarded; otherwise only the listed kinds are, which
// keeps per-frame hover traffic out of worlds that only care about clicks or
// keys. Events queue until InteractionEventType.ProcessEvents runs.
func NewDonburiStore(world donburi.World, kinds ...arbor.EventType) arbor.EntityStore {
	st := &worldStore{world: world}
	if len(kinds) > 0 {
		st.only = make(map[arbor.EventType]bool, len(kinds))
		for _, k := range kinds {
			st.only[k] = true
		}
	}
	return st
}

func (st *worldStore) EmitEvent(ev arbor.InteractionEvent) {
	if st.only != nil && !st.only[ev.Type] {
		return
	}
	InteractionEventType.Publish(st.world, ev)
}
