package gpu

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Names of the SceneParams uniform fields read by the shading stage.
const (
	ParamCameraToWorld = "cameraToWorld"
	ParamCameraOrigin  = "cameraOrigin"
	ParamNumSpheres    = "numSpheres"
	ParamNumTriangles  = "numTriangles"
	ParamNumPlanes     = "numPlanes"
	ParamNumLights     = "numLights"
	ParamFov           = "fov"
	ParamMaxDepth      = "maxDepth"
	ParamAmbient       = "ambient"
)

// ParamsLayout mirrors `struct SceneParams` bound at SlotParams.
var ParamsLayout = Layout{
	Name: "SceneParams",
	Size: 112,
	Fields: []Field{
		{ParamCameraToWorld, 0, KindMat4},
		{ParamCameraOrigin, 64, KindVec4},
		{ParamNumSpheres, 80, KindI32},
		{ParamNumTriangles, 84, KindI32},
		{ParamNumPlanes, 88, KindI32},
		{ParamNumLights, 92, KindI32},
		{ParamFov, 96, KindF32},
		{ParamMaxDepth, 100, KindU32},
		{ParamAmbient, 104, KindF32},
		{"pad0", 108, KindF32},
	},
}

// Program publishes named scalar, vector and matrix parameters to the
// shading stage. Location returns -1 for unknown names; setters ignore
// negative locations.
type Program interface {
	Location(name string) int
	SetInt(loc int, v int32)
	SetUint(loc int, v uint32)
	SetFloat(loc int, v float32)
	SetVec4(loc int, v mgl32.Vec4)
	SetMat4(loc int, m mgl32.Mat4)
}

// ParamBlock is the CPU copy of the SceneParams uniform. Locations are byte
// offsets into the block.
type ParamBlock struct {
	layout Layout
	data   []byte
	dirty  bool
}

func NewParamBlock() *ParamBlock {
	return &ParamBlock{
		layout: ParamsLayout,
		data:   make([]byte, ParamsLayout.Size),
		dirty:  true,
	}
}

func (p *ParamBlock) Location(name string) int {
	if f, ok := p.layout.Field(name); ok {
		return f.Offset
	}
	return -1
}

func (p *ParamBlock) fits(loc, size int) bool {
	return loc >= 0 && loc+size <= len(p.data)
}

func (p *ParamBlock) SetInt(loc int, v int32) {
	if p.fits(loc, 4) {
		putU32(p.data, loc, uint32(v))
		p.dirty = true
	}
}

func (p *ParamBlock) SetUint(loc int, v uint32) {
	if p.fits(loc, 4) {
		putU32(p.data, loc, v)
		p.dirty = true
	}
}

func (p *ParamBlock) SetFloat(loc int, v float32) {
	if p.fits(loc, 4) {
		putF32(p.data, loc, v)
		p.dirty = true
	}
}

func (p *ParamBlock) SetVec4(loc int, v mgl32.Vec4) {
	if p.fits(loc, 16) {
		putVec4(p.data, loc, v)
		p.dirty = true
	}
}

func (p *ParamBlock) SetMat4(loc int, m mgl32.Mat4) {
	if p.fits(loc, 64) {
		putMat4(p.data, loc, m)
		p.dirty = true
	}
}

func (p *ParamBlock) Int(name string) int32 {
	loc := p.Location(name)
	if !p.fits(loc, 4) {
		return 0
	}
	return int32(getU32(p.data, loc))
}

func (p *ParamBlock) Float(name string) float32 {
	loc := p.Location(name)
	if !p.fits(loc, 4) {
		return 0
	}
	return getF32(p.data, loc)
}

func (p *ParamBlock) Vec4(name string) mgl32.Vec4 {
	loc := p.Location(name)
	if !p.fits(loc, 16) {
		return mgl32.Vec4{}
	}
	return getVec4(p.data, loc)
}

func (p *ParamBlock) Mat4(name string) mgl32.Mat4 {
	loc := p.Location(name)
	if !p.fits(loc, 64) {
		return mgl32.Mat4{}
	}
	return getMat4(p.data, loc)
}

// Bytes returns the block contents. The slice is owned by p.
func (p *ParamBlock) Bytes() []byte { return p.data }

func (p *ParamBlock) Dirty() bool { return p.dirty }

func (p *ParamBlock) ClearDirty() { p.dirty = false }
