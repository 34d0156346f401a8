package effectdiff

import (
	"testing"
	"time"
)

func TestDetectEmitsOnlyNewRecognizedEffects(t *testing.T) {
	d := New()

	emitted := d.Detect("p1", []Active{
		{Index: 0, ID: "Potion_Health_T1"},
		{Index: 1, ID: "Unrelated_Effect"},
	})
	if len(emitted) != 1 || emitted[0].Index != 0 {
		t.Fatalf("got %+v, want exactly index 0 emitted", emitted)
	}

	// Same tick contents again: already in `previous`, must not re-emit.
	emitted = d.Detect("p1", []Active{
		{Index: 0, ID: "Potion_Health_T1"},
		{Index: 1, ID: "Unrelated_Effect"},
	})
	if len(emitted) != 0 {
		t.Fatalf("expected no re-emission for already-active effect, got %+v", emitted)
	}
}

func TestDetectReemitsAfterCooldownOnReapplication(t *testing.T) {
	d := New()
	now := time.Now()
	d.now = func() time.Time { return now }

	emitted := d.Detect("p1", []Active{{Index: 0, ID: "Potion_Health_T1"}})
	if len(emitted) != 1 {
		t.Fatalf("expected first application to emit, got %+v", emitted)
	}

	// Effect drops off (drunk instantly) then is reapplied within the
	// cooldown window: must not re-emit yet.
	d.Detect("p1", nil)
	emitted = d.Detect("p1", []Active{{Index: 0, ID: "Potion_Health_T1"}})
	if len(emitted) != 0 {
		t.Fatalf("expected suppressed re-emission inside cooldown, got %+v", emitted)
	}

	// Advance past the cooldown window, let the effect drop off again, and
	// reapply: should emit again.
	now = now.Add(CleanupInterval + time.Millisecond)
	d.Detect("p1", nil)
	emitted = d.Detect("p1", []Active{{Index: 0, ID: "Potion_Health_T1"}})
	if len(emitted) != 1 {
		t.Fatalf("expected re-emission after cooldown elapsed, got %+v", emitted)
	}
}

func TestDetectClassifiesTierAndKind(t *testing.T) {
	d := New()
	emitted := d.Detect("p1", []Active{{Index: 0, ID: "Food_Meat_Large"}})
	if len(emitted) != 1 {
		t.Fatalf("expected one emission, got %+v", emitted)
	}
	if emitted[0].Tier != Tier3 {
		t.Errorf("Tier = %v, want Tier3", emitted[0].Tier)
	}
	if emitted[0].Kind != KindMeat {
		t.Errorf("Kind = %v, want KindMeat", emitted[0].Kind)
	}
}

func TestDetectEmitsDebuffsToo(t *testing.T) {
	d := New()
	emitted := d.Detect("p1", []Active{{Index: 0, ID: "Poison_Spider_Bite"}})
	if len(emitted) != 1 {
		t.Fatalf("expected debuff to be emitted, got %+v", emitted)
	}
}

func TestForgetDropsPlayerState(t *testing.T) {
	d := New()
	d.Detect("p1", []Active{{Index: 0, ID: "Potion_Health_T1"}})
	d.Forget("p1")

	if _, ok := d.players["p1"]; ok {
		t.Error("expected player state to be dropped after Forget")
	}
}
