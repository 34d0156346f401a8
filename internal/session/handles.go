package session

import "github.com/moshpitcodes/livinglands-core/internal/hostapi"

// ecsHandles is the bundle of lazily-populated handles a PlayerSession
// holds once the host signals the player's entity is ready. It is always
// swapped in as a whole unit via atomic.Pointer so a reader that observes
// ecs_ready == true is guaranteed to see every field set alongside it.
type ecsHandles struct {
	entity       hostapi.EntityRef
	store        hostapi.EntityStore
	world        hostapi.WorldHandle
	network      hostapi.PlayerNetworkHandle
	playerEntity hostapi.PlayerEntityHandle
}
