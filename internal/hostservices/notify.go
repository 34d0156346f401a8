// Package hostservices provides notification dispatch to players
// (configuration load/save lives in moduleruntime.LoadConfig/SaveConfig),
// generalizing the teacher's network.Hub
// broadcast methods (BroadcastToGame/SendToClient) from "websocket message
// envelope" to "title/sound/chat call on the host's per-player network
// handle".
package hostservices

import (
	"github.com/moshpitcodes/livinglands-core/internal/hostapi"
	"github.com/moshpitcodes/livinglands-core/internal/platform/logger"
	"github.com/moshpitcodes/livinglands-core/internal/session"
)

// ColorPreset is a named text color/style bundled for a notification
// category, mirroring the kind of preset table a chat-formatting layer
// would hold — kept here only as a string prefix since rendering chat
// color codes is explicitly out of this framework's scope.
type ColorPreset string

const (
	ColorSuccess ColorPreset = "SUCCESS"
	ColorWarn    ColorPreset = "WARN"
	ColorError   ColorPreset = "ERROR"
	ColorInfo    ColorPreset = "INFO"
	ColorUnlock  ColorPreset = "UNLOCK"
)

// Notifications dispatches title/sound/chat notifications to players via
// their session's network handle, entirely through execute_on_world, with
// defensive exception suppression so a host-side panic in a single
// notification call never takes the scheduler thread down.
type Notifications struct {
	sessions *session.Registry
	logger   *logger.Logger
}

// NewNotifications creates a dispatcher bound to the session registry.
func NewNotifications(sessions *session.Registry, log *logger.Logger) *Notifications {
	return &Notifications{sessions: sessions, logger: log}
}

func (n *Notifications) dispatch(playerID string, action func(hostapi.PlayerNetworkHandle)) {
	dispatched := n.sessions.ExecuteOnWorldWithHandles(playerID, func(_ hostapi.EntityRef, _ hostapi.EntityStore, network hostapi.PlayerNetworkHandle, _ hostapi.PlayerEntityHandle) {
		defer func() {
			if r := recover(); r != nil {
				n.logger.Warn("notification dispatch panicked for player " + playerID)
			}
		}()
		if network == nil {
			return
		}
		action(network)
	})
	if !dispatched {
		n.logger.Warn("notification dropped, player " + playerID + " not ECS-ready")
	}
}

// Chat sends a chat message to playerID, prefixed by preset's marker.
func (n *Notifications) Chat(playerID string, preset ColorPreset, message string) {
	n.dispatch(playerID, func(net hostapi.PlayerNetworkHandle) {
		net.SendChat("[" + string(preset) + "] " + message)
	})
}

// Sound plays soundID for playerID.
func (n *Notifications) Sound(playerID string, soundID string) {
	n.dispatch(playerID, func(net hostapi.PlayerNetworkHandle) {
		net.PlaySound(soundID)
	})
}

// Title shows a title/subtitle pair for playerID.
func (n *Notifications) Title(playerID string, title, subtitle string) {
	n.dispatch(playerID, func(net hostapi.PlayerNetworkHandle) {
		net.ShowTitle(title, subtitle)
	})
}

// NotifyVitalsChange implements metabolism.Notifier as a no-op: it sends
// nothing to the player. Modules that want a vitals display read
// PlayerMetabolismData directly rather than going through this path.
func (n *Notifications) NotifyVitalsChange(playerID string, hunger, thirst, energy float64) {
	// Deliberately not dispatched every tick to avoid chat spam; the hud
	// consumer module polls PlayerMetabolismData directly for live display.
	_ = playerID
	_ = hunger
	_ = thirst
	_ = energy
}
