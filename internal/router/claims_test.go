package router

import "testing"

func TestClaimBlockTrackingRecordAndClear(t *testing.T) {
	tr := NewClaimBlockTracking(10)
	pos := BlockPos{WorldID: "w1", X: 1, Y: 2, Z: 3}

	if tr.IsPlayerPlaced(pos) {
		t.Fatal("unrecorded position should not be player-placed")
	}

	tr.RecordPlaced(pos)
	if !tr.IsPlayerPlaced(pos) {
		t.Fatal("expected position to be recorded as player-placed")
	}

	if !tr.ClearBreak(pos) {
		t.Error("ClearBreak should report true for a recorded position")
	}
	if tr.IsPlayerPlaced(pos) {
		t.Error("position should no longer be tracked after ClearBreak")
	}
}

func TestClaimBlockTrackingClearBreakUnrecordedReturnsFalse(t *testing.T) {
	tr := NewClaimBlockTracking(10)
	if tr.ClearBreak(BlockPos{WorldID: "w1", X: 9, Y: 9, Z: 9}) {
		t.Error("ClearBreak on an untracked position should return false")
	}
}

func TestClaimBlockTrackingEvictsHalfAtCapacity(t *testing.T) {
	tr := NewClaimBlockTracking(4)
	for i := 0; i < 4; i++ {
		tr.RecordPlaced(BlockPos{WorldID: "w1", X: i, Y: 0, Z: 0})
	}
	if tr.Size() != 4 {
		t.Fatalf("Size() = %d, want 4", tr.Size())
	}

	tr.RecordPlaced(BlockPos{WorldID: "w1", X: 99, Y: 0, Z: 0})
	if tr.Size() >= 5 {
		t.Errorf("Size() = %d, want eviction to have kept it below capacity+1", tr.Size())
	}
}
