package gpu

import "testing"

func TestSlots(t *testing.T) {
	if SceneSlots != [4]Slot{1, 2, 3, 4} {
		t.Errorf("Unexpected scene slots %v", SceneSlots)
	}
	if s := SlotTriangles.String(); s != "Triangles" {
		t.Errorf("Expected Triangles, got %s", s)
	}
	if s := Slot(9).String(); s != "Slot(9)" {
		t.Errorf("Expected Slot(9), got %s", s)
	}

	if SlotSpheres.CountParam() != ParamNumSpheres || SlotLights.CountParam() != ParamNumLights {
		t.Error("Count params do not match their slots")
	}
	if p := SlotParams.CountParam(); p != "" {
		t.Errorf("SlotParams should have no count param, got %q", p)
	}

	if SlotTriangles.RecordLayout().Name != TriangleLayout.Name {
		t.Error("SlotTriangles should use TriangleLayout")
	}
	if SlotParams.RecordLayout().Name != ParamsLayout.Name {
		t.Error("SlotParams should use ParamsLayout")
	}
}

func TestCountsOf(t *testing.T) {
	c := Counts{Spheres: 1, Triangles: 2, Planes: 3, Lights: 4}
	for _, slot := range SceneSlots {
		if got := c.Of(slot); got != int(slot) {
			t.Errorf("Counts.Of(%s) = %d, want %d", slot, got, int(slot))
		}
	}
	if c.Of(SlotParams) != 0 {
		t.Error("Counts.Of(SlotParams) should be 0")
	}
}
