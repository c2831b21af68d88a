// Package scenes holds the hand-authored scene tableaux. Each call to a
// fixture builds a fresh scene; switching fixtures is the only way a scene
// changes.
package scenes

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/gekko3d/raytracer/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

type Fixture struct {
	Name        string
	Description string
	Build       func() *core.Scene
}

var fixtures = []Fixture{
	{Name: "cornell-room", Description: "Coloured room, reflective sphere, blue pyramid, point light", Build: CornellRoom},
	{Name: "spheres-and-cone", Description: "Three spheres and a green cone on a floor plane", Build: SpheresAndCone},
	{Name: "single-sphere", Description: "One half-mirror sphere under one point light", Build: SingleSphere},
	{Name: "empty", Description: "A light and nothing to hit", Build: Empty},
}

// All returns the fixtures in key order (index 0 is bound to key 1).
func All() []Fixture {
	return append([]Fixture(nil), fixtures...)
}

func Names() []string {
	names := make([]string, len(fixtures))
	for i, f := range fixtures {
		names[i] = f.Name
	}
	return names
}

func ByIndex(i int) (Fixture, error) {
	if i < 0 || i >= len(fixtures) {
		return Fixture{}, fmt.Errorf("scene index %d out of range [0,%d)", i, len(fixtures))
	}
	return fixtures[i], nil
}

func ByName(name string) (Fixture, error) {
	for _, f := range fixtures {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return Fixture{}, fmt.Errorf("unknown scene %q (have %s)", name, strings.Join(Names(), ", "))
}

// IndexOf returns the position of the named fixture, or -1.
func IndexOf(name string) int {
	for i, f := range fixtures {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

const room = 2.75

func CornellRoom() *core.Scene {
	s := core.NewScene("cornell-room")

	s.AddLight(core.Light{
		Center:    core.Point(0, 2.4, -7.75),
		Color:     core.RGB(1, 1, 1),
		Intensity: 0.8,
	})

	s.AddSphere(core.Sphere{
		Center:   core.Point(0.9, -1.925, -6.69),
		Radius:   0.825,
		Material: core.Mirror(0.6),
	})

	// Pyramid: four faces around the apex.
	blue := core.NewMaterial(core.RGB(0.1, 0.2, 0.8), core.RGB(0.6, 0.6, 0.6), 32, 0)
	apex := core.Point(-0.93, 0.55, -8.51)
	base := [4][3]float32{
		{-0.4, -2.75, -9.55},
		{0.11, -2.75, -7.98},
		{-1.46, -2.75, -7.47},
		{-1.97, -2.75, -9.04},
	}
	for i := range base {
		a, b := base[i], base[(i+1)%len(base)]
		s.AddTriangle(core.Triangle{
			A:        core.Point(a[0], a[1], a[2]),
			B:        apex,
			C:        core.Point(b[0], b[1], b[2]),
			Material: blue,
		})
	}

	white := core.Matte(0.8, 0.8, 0.8)
	// floor
	s.AddQuad(
		core.Point(-room, -room, -5), core.Point(room, -room, -5),
		core.Point(room, -room, -10.5), core.Point(-room, -room, -10.5), white)
	// ceiling
	s.AddQuad(
		core.Point(-room, room, -5), core.Point(-room, room, -10.5),
		core.Point(room, room, -10.5), core.Point(room, room, -5), white)
	// red wall on the left
	s.AddQuad(
		core.Point(-room, -room, -5), core.Point(-room, -room, -10.5),
		core.Point(-room, room, -10.5), core.Point(-room, room, -5), core.Matte(0.8, 0.1, 0.1))
	// green wall on the right
	s.AddQuad(
		core.Point(room, -room, -5), core.Point(room, room, -5),
		core.Point(room, room, -10.5), core.Point(room, -room, -10.5), core.Matte(0.1, 0.7, 0.1))

	s.AddPlane(core.Plane{
		Normal:   core.Direction(0, 0, 1),
		Point:    core.Point(0, 0, -10.5),
		Material: white,
	})
	return s
}

func SpheresAndCone() *core.Scene {
	s := core.NewScene("spheres-and-cone")

	s.AddLight(core.Light{
		Center:    core.Point(4, 6, -1),
		Color:     core.RGB(1, 1, 0.95),
		Radius:    0.5,
		Intensity: 1,
	})

	s.AddSphere(core.Sphere{
		Center:   core.Point(1, -0.5, -3.5),
		Radius:   0.5,
		Material: core.NewMaterial(core.RGB(0.9, 0.8, 0.1), core.RGB(1, 1, 1), 16, 0),
	})
	s.AddSphere(core.Sphere{
		Center:   core.Point(0, 1, -5),
		Radius:   0.4,
		Material: core.Mirror(0.8),
	})
	s.AddSphere(core.Sphere{
		Center:   core.Point(-0.8, -0.75, -4),
		Radius:   0.25,
		Material: core.NewMaterial(core.RGB(0.5, 0.1, 0.6), core.RGB(0.9, 0.9, 0.9), 64, 0.3),
	})

	addCone(s, core.Point(-0.4, -1, -6), 0.4, 1.6, 12,
		core.NewMaterial(core.RGB(0.1, 0.7, 0.2), core.RGB(0.3, 0.3, 0.3), 8, 0))

	s.AddPlane(core.Plane{
		Normal:   core.Direction(0, 1, 0),
		Point:    core.Point(0, -1, 0),
		Material: core.Matte(0.6, 0.6, 0.6),
	})
	s.AddPlane(core.Plane{
		Normal:   core.Direction(0, 0, 1),
		Point:    core.Point(0, 0, -12),
		Material: core.Matte(0.3, 0.5, 0.9),
	})
	return s
}

// addCone adds a triangle fan of segs sides standing on base; the faces wind
// counter-clockwise seen from outside.
func addCone(s *core.Scene, base mgl32.Vec4, radius, height float32, segs int, m core.Material) {
	apex := core.Point(base[0], base[1]+height, base[2])
	ring := func(i int) mgl32.Vec4 {
		a := 2 * math32.Pi * float32(i) / float32(segs)
		return core.Point(base[0]+radius*math32.Cos(a), base[1], base[2]-radius*math32.Sin(a))
	}
	for i := 0; i < segs; i++ {
		s.AddTriangle(core.Triangle{A: ring(i), B: ring(i + 1), C: apex, Material: m})
	}
}

// SingleSphere is the minimal tableau: one sphere, no triangles or planes,
// one light.
func SingleSphere() *core.Scene {
	s := core.NewScene("single-sphere")
	s.AddSphere(core.Sphere{
		Center: core.Point(0, -1.75, -6.69),
		Radius: 1,
		Material: core.Material{
			Diffuse:     core.RGB(0.5, 0.5, 0.5),
			Specular:    core.RGB(1, 1, 1),
			Shininess:   32,
			Reflectance: 0.5,
		},
	})
	s.AddLight(core.NewPointLight(core.Point(0, 2.4, -7.75), 0.5))
	return s
}

func Empty() *core.Scene {
	s := core.NewScene("empty")
	s.AddLight(core.NewPointLight(core.Point(0, 2, 0), 1))
	return s
}
