package hostservices

import (
	"testing"

	"github.com/moshpitcodes/livinglands-core/internal/hostapi/hostapitest"
	"github.com/moshpitcodes/livinglands-core/internal/platform/logger"
	"github.com/moshpitcodes/livinglands-core/internal/platform/metrics"
	"github.com/moshpitcodes/livinglands-core/internal/session"
)

func newTestNotifications() (*Notifications, *session.Registry) {
	d := &hostapitest.WorldDispatcher{}
	sessions := session.NewRegistry(d, logger.NewLogger(), metrics.New())
	return NewNotifications(sessions, logger.NewLogger()), sessions
}

func readyPlayer(t *testing.T, sessions *session.Registry, playerID string, net *hostapitest.PlayerNetworkHandle) {
	t.Helper()
	sessions.Register(playerID)
	entity := hostapitest.NewEntityRef()
	store := hostapitest.NewEntityStore()
	world := hostapitest.NewWorldHandle("w1")
	if err := sessions.SetECSHandles(playerID, entity, store, world, net, nil); err != nil {
		t.Fatalf("SetECSHandles failed: %v", err)
	}
}

func TestChatDispatchesWhenReady(t *testing.T) {
	n, sessions := newTestNotifications()
	net := &hostapitest.PlayerNetworkHandle{}
	readyPlayer(t, sessions, "p1", net)

	n.Chat("p1", ColorSuccess, "hello")

	if len(net.Chats) != 1 || net.Chats[0] != "[SUCCESS] hello" {
		t.Errorf("got %v, want one prefixed chat message", net.Chats)
	}
}

func TestChatDroppedWhenNotReady(t *testing.T) {
	n, sessions := newTestNotifications()
	sessions.Register("p1")

	n.Chat("p1", ColorWarn, "should not arrive")
}

func TestSoundAndTitleDispatch(t *testing.T) {
	n, sessions := newTestNotifications()
	net := &hostapitest.PlayerNetworkHandle{}
	readyPlayer(t, sessions, "p1", net)

	n.Sound("p1", "ding")
	n.Title("p1", "Welcome", "enjoy your stay")

	if len(net.Sounds) != 1 || net.Sounds[0] != "ding" {
		t.Errorf("got %v, want one sound", net.Sounds)
	}
	if len(net.Titles) != 1 || net.Titles[0] != [2]string{"Welcome", "enjoy your stay"} {
		t.Errorf("got %v, want one title", net.Titles)
	}
}

func TestNotifyVitalsChangeIsANoopHook(t *testing.T) {
	n, _ := newTestNotifications()
	// Must never panic regardless of player id/state; the HUD module polls
	// vitals directly instead of relying on this path.
	n.NotifyVitalsChange("anyone", 50, 50, 50)
}
