package logic

import (
	"testing"

	"github.com/pathgriho/adrotor/internal/models"
)

var (
	ownerCozy  = models.Owner{ID: "cozy", Name: "Cozy Homes"}
	ownerFancy = models.Owner{ID: "fancy", Name: "Fancy Gardens"}
)

func TestSelectTopOwnerTieGoesToFirstListed(t *testing.T) {
	top, bottom := SelectTopOwner(0, 0, ownerCozy, ownerFancy)
	if top.ID != "cozy" || bottom.ID != "fancy" {
		t.Fatalf("expected cozy/fancy on tie, got %s/%s", top.ID, bottom.ID)
	}

	top, bottom = SelectTopOwner(7, 7, ownerCozy, ownerFancy)
	if top.ID != "cozy" || bottom.ID != "fancy" {
		t.Fatalf("expected first-listed owner to win ties, got %s/%s", top.ID, bottom.ID)
	}
}

func TestSelectTopOwnerLowerCountWins(t *testing.T) {
	top, bottom := SelectTopOwner(3, 1, ownerCozy, ownerFancy)
	if top.ID != "fancy" || bottom.ID != "cozy" {
		t.Fatalf("expected fancy on top, got %s/%s", top.ID, bottom.ID)
	}

	top, _ = SelectTopOwner(1, 3, ownerCozy, ownerFancy)
	if top.ID != "cozy" {
		t.Fatalf("expected cozy on top, got %s", top.ID)
	}
}

// With serialized counter updates the top-assignment counts of the two
// owners never drift apart by more than one at any point in the sequence.
func TestFairnessConvergence(t *testing.T) {
	var countA, countB int64
	for i := 0; i < 1000; i++ {
		top, _ := SelectTopOwner(countA, countB, ownerCozy, ownerFancy)
		if top.ID == ownerCozy.ID {
			countA++
		} else {
			countB++
		}
		diff := countA - countB
		if diff < -1 || diff > 1 {
			t.Fatalf("after %d requests counts diverged: %d vs %d", i+1, countA, countB)
		}
	}
	// 1000 requests split exactly evenly.
	if countA != 500 || countB != 500 {
		t.Fatalf("expected 500/500 split, got %d/%d", countA, countB)
	}
}

func TestFairnessAlternatesFromColdStart(t *testing.T) {
	var countA, countB int64
	want := []string{"cozy", "fancy", "cozy", "fancy"}
	for i, expected := range want {
		top, _ := SelectTopOwner(countA, countB, ownerCozy, ownerFancy)
		if top.ID != expected {
			t.Fatalf("request %d: expected %s on top, got %s", i+1, expected, top.ID)
		}
		if top.ID == ownerCozy.ID {
			countA++
		} else {
			countB++
		}
	}
}
