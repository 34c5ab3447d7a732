package model

import "testing"

func i32(v int32) *int32 { return &v }

func TestParentID_PrefersPlanetOverStar(t *testing.T) {
	b := Body{ParentPlanetID: i32(3), ParentStarID: i32(1)}
	got := b.ImmediateParentID()
	if got == nil || *got != 3 {
		t.Errorf("ImmediateParentID() = %v, want 3", got)
	}
}

func TestParentID_FallsBackToStarThenBaryCentre(t *testing.T) {
	starOnly := Body{ParentStarID: i32(1)}
	if got := starOnly.ImmediateParentID(); got == nil || *got != 1 {
		t.Errorf("ImmediateParentID() with only star = %v, want 1", got)
	}

	baryOnly := Body{ParentBaryCentreID: i32(9)}
	if got := baryOnly.ImmediateParentID(); got == nil || *got != 9 {
		t.Errorf("ImmediateParentID() with only bary centre = %v, want 9", got)
	}

	none := Body{}
	if got := none.ImmediateParentID(); got != nil {
		t.Errorf("ImmediateParentID() with no parent = %v, want nil", got)
	}
}

func TestResolveBodyParentsTakesFirstOfEachKind(t *testing.T) {
	chain := []ParentRef{
		{PlanetID: i32(5)},
		{StarID: i32(0)},
	}
	planetID, starID, baryID := ResolveBodyParents(chain)
	if planetID == nil || *planetID != 5 {
		t.Errorf("planetID = %v, want 5", planetID)
	}
	if starID == nil || *starID != 0 {
		t.Errorf("starID = %v, want 0", starID)
	}
	if baryID != nil {
		t.Errorf("baryID = %v, want nil", baryID)
	}
}

func TestResolveBodyParentsEmptyChain(t *testing.T) {
	planetID, starID, baryID := ResolveBodyParents(nil)
	if planetID != nil || starID != nil || baryID != nil {
		t.Error("ResolveBodyParents(nil) should return all-nil")
	}
}

func TestStarSystemBodyByIDAndHasBody(t *testing.T) {
	sys := StarSystem{Bodies: []Body{{BodyID: 1, Name: "a"}, {BodyID: 2, Name: "b"}}}
	got, ok := sys.BodyByID(2)
	if !ok || got.Name != "b" {
		t.Fatalf("BodyByID(2) = %+v, %v", got, ok)
	}
	if sys.HasBody(99) {
		t.Error("HasBody(99) = true, want false")
	}
	if !sys.HasBody(1) {
		t.Error("HasBody(1) = false, want true")
	}
}

func TestStarSystemRingByParent(t *testing.T) {
	sys := StarSystem{Rings: []Ring{{ParentBodyID: 1, Name: "Sys A 1 A Ring"}}}
	got, ok := sys.RingByParent(1, "Sys A 1 A Ring")
	if !ok || got.Class != "" {
		t.Fatalf("RingByParent() = %+v, %v", got, ok)
	}
	if _, ok := sys.RingByParent(1, "no such ring"); ok {
		t.Error("RingByParent() matched a nonexistent ring")
	}
}
