package gpu

import (
	"errors"
	"fmt"

	"github.com/gekko3d/raytracer"
	"github.com/gekko3d/raytracer/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Counts are the per-type element counts published to the shading stage.
type Counts struct {
	Spheres   int
	Triangles int
	Planes    int
	Lights    int
}

func (c Counts) Of(slot Slot) int {
	switch slot {
	case SlotSpheres:
		return c.Spheres
	case SlotTriangles:
		return c.Triangles
	case SlotPlanes:
		return c.Planes
	case SlotLights:
		return c.Lights
	}
	return 0
}

func (c *Counts) set(slot Slot, n int) {
	switch slot {
	case SlotSpheres:
		c.Spheres = n
	case SlotTriangles:
		c.Triangles = n
	case SlotPlanes:
		c.Planes = n
	case SlotLights:
		c.Lights = n
	}
}

// ScenePacker uploads a whole scene into the four record slots and
// publishes the element counts. It is the only writer of those slots.
type ScenePacker struct {
	backend Backend
	program Program
	log     raytracer.Logger

	buffers    [slotCount]Buffer
	counts     Counts
	generation uint64
}

func NewScenePacker(backend Backend, program Program, log raytracer.Logger) *ScenePacker {
	return &ScenePacker{
		backend: backend,
		program: program,
		log:     raytracer.OrNop(log),
	}
}

// Pack replaces the previous scene on the GPU with scene. Every record
// array is uploaded into a new allocation first, then all slots are bound,
// then the old allocations are released and finally the counts are
// published. A nil scene packs as empty.
//
// Failures are logged where they happen and packing continues; a type whose
// buffer could not be created or bound publishes a count of 0. The returned
// error joins every failure.
func (p *ScenePacker) Pack(scene *core.Scene) error {
	if scene == nil {
		scene = &core.Scene{}
	}

	data := [slotCount][]byte{
		SlotSpheres:   EncodeSpheres(scene.Spheres),
		SlotTriangles: EncodeTriangles(scene.Triangles),
		SlotPlanes:    EncodePlanes(scene.Planes),
		SlotLights:    EncodeLights(scene.Lights),
	}
	records := Counts{
		Spheres:   len(scene.Spheres),
		Triangles: len(scene.Triangles),
		Planes:    len(scene.Planes),
		Lights:    len(scene.Lights),
	}

	var errs []error
	fail := func(err error) {
		p.log.Errorf("%v", err)
		errs = append(errs, err)
	}

	// 1. Upload
	var fresh [slotCount]Buffer
	for _, slot := range SceneSlots {
		label := fmt.Sprintf("%sBuf#%d", slot, p.generation+1)
		buf, err := p.backend.CreateBuffer(label, data[slot])
		if err != nil {
			fail(fmt.Errorf("upload %s (%d bytes): %w", slot, len(data[slot]), err))
			continue
		}
		fresh[slot] = buf
	}

	// 2. Bind
	for _, slot := range SceneSlots {
		if err := p.backend.Bind(slot, fresh[slot]); err != nil {
			fail(fmt.Errorf("bind %s to slot %d: %w", slot, uint32(slot), err))
			if fresh[slot] != nil {
				fresh[slot].Release()
				fresh[slot] = nil
			}
		}
	}

	// 3. Drop the previous generation
	for _, slot := range SceneSlots {
		if old := p.buffers[slot]; old != nil {
			old.Release()
		}
		p.buffers[slot] = fresh[slot]
	}

	// 4. Publish counts
	var counts Counts
	for _, slot := range SceneSlots {
		n := 0
		if fresh[slot] != nil {
			n = records.Of(slot)
		}
		counts.set(slot, n)
		if err := p.setInt(slot.CountParam(), int32(n)); err != nil {
			fail(err)
		}
	}
	p.counts = counts
	p.generation++

	p.log.Debugf("packed scene %q gen=%d: %d spheres, %d triangles, %d planes, %d lights",
		scene.Name, p.generation, counts.Spheres, counts.Triangles, counts.Planes, counts.Lights)
	return errors.Join(errs...)
}

func (p *ScenePacker) setInt(name string, v int32) error {
	loc := p.program.Location(name)
	if loc < 0 {
		return fmt.Errorf("publish %s: parameter not found", name)
	}
	p.program.SetInt(loc, v)
	return nil
}

// SetCamera publishes the camera transform, origin and field of view
// (radians) for a viewport.
func (p *ScenePacker) SetCamera(cam *core.CameraState) {
	p.program.SetMat4(p.program.Location(ParamCameraToWorld), cam.CameraToWorld())
	p.program.SetVec4(p.program.Location(ParamCameraOrigin), cam.Position.Vec4(1))
	p.program.SetFloat(p.program.Location(ParamFov), mgl32.DegToRad(cam.Fov))
}

func (p *ScenePacker) SetShading(maxDepth int, ambient float32) {
	if maxDepth < 0 {
		maxDepth = 0
	}
	p.program.SetUint(p.program.Location(ParamMaxDepth), uint32(maxDepth))
	p.program.SetFloat(p.program.Location(ParamAmbient), ambient)
}

// Counts are the values published by the last Pack.
func (p *ScenePacker) Counts() Counts { return p.counts }

// Buffer is the allocation currently bound at slot, or nil.
func (p *ScenePacker) Buffer(slot Slot) Buffer {
	if uint32(slot) >= slotCount {
		return nil
	}
	return p.buffers[slot]
}

// Generation counts completed Pack calls.
func (p *ScenePacker) Generation() uint64 { return p.generation }

// Release frees every buffer owned by the packer.
func (p *ScenePacker) Release() {
	for i, b := range p.buffers {
		if b != nil {
			b.Release()
			p.buffers[i] = nil
		}
	}
}
