package gpu

import "fmt"

// Slot is a binding index in bind group 0 of the trace shader. The numbers
// are shared with the @binding attributes in raytrace.wgsl and must not be
// renumbered on one side only.
type Slot uint32

const (
	SlotParams    Slot = 0
	SlotSpheres   Slot = 1
	SlotTriangles Slot = 2
	SlotPlanes    Slot = 3
	SlotLights    Slot = 4

	slotCount = 5
)

// SceneSlots lists the record slots in upload order.
var SceneSlots = [4]Slot{SlotSpheres, SlotTriangles, SlotPlanes, SlotLights}

func (s Slot) String() string {
	switch s {
	case SlotParams:
		return "Params"
	case SlotSpheres:
		return "Spheres"
	case SlotTriangles:
		return "Triangles"
	case SlotPlanes:
		return "Planes"
	case SlotLights:
		return "Lights"
	}
	return fmt.Sprintf("Slot(%d)", uint32(s))
}

// CountParam is the SceneParams field holding the element count of s, or ""
// for SlotParams.
func (s Slot) CountParam() string {
	switch s {
	case SlotSpheres:
		return ParamNumSpheres
	case SlotTriangles:
		return ParamNumTriangles
	case SlotPlanes:
		return ParamNumPlanes
	case SlotLights:
		return ParamNumLights
	}
	return ""
}

// RecordLayout is the layout of one element of the array bound at s.
func (s Slot) RecordLayout() Layout {
	switch s {
	case SlotSpheres:
		return SphereLayout
	case SlotTriangles:
		return TriangleLayout
	case SlotPlanes:
		return PlaneLayout
	case SlotLights:
		return LightLayout
	}
	return ParamsLayout
}
