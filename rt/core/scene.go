package core

import "github.com/go-gl/mathgl/mgl32"

type Sphere struct {
	Center mgl32.Vec4 // w=1
	Radius float32
	Material
}

type Plane struct {
	Normal mgl32.Vec4 // unit length, w=0
	Point  mgl32.Vec4 // any point on the plane, w=1
	Material
}

// Triangle corners are in counter-clockwise order when seen from the front.
// Winding is never validated or reordered here.
type Triangle struct {
	A, B, C mgl32.Vec4
	Material
}

// Scene owns one ordered list per primitive type plus the lights. Index
// order is the intersection tie-break: on equal distance the lowest index
// wins. A scene is never edited in place once handed to the packer; a new
// scene replaces it.
type Scene struct {
	Name      string
	Spheres   []Sphere
	Triangles []Triangle
	Planes    []Plane
	Lights    []Light
}

func NewScene(name string) *Scene {
	return &Scene{Name: name}
}

func (s *Scene) AddSphere(sp Sphere) *Scene {
	s.Spheres = append(s.Spheres, sp)
	return s
}

func (s *Scene) AddTriangle(tr Triangle) *Scene {
	s.Triangles = append(s.Triangles, tr)
	return s
}

// AddQuad adds the rectangle a,b,c,d (counter-clockwise) as two triangles.
func (s *Scene) AddQuad(a, b, c, d mgl32.Vec4, m Material) *Scene {
	s.Triangles = append(s.Triangles,
		Triangle{A: a, B: b, C: c, Material: m},
		Triangle{A: a, B: c, C: d, Material: m},
	)
	return s
}

func (s *Scene) AddPlane(p Plane) *Scene {
	s.Planes = append(s.Planes, p)
	return s
}

func (s *Scene) AddLight(l Light) *Scene {
	s.Lights = append(s.Lights, l)
	return s
}

// PrimitiveCount is the number of renderable primitives, lights excluded.
func (s *Scene) PrimitiveCount() int {
	return len(s.Spheres) + len(s.Triangles) + len(s.Planes)
}

// Clone returns a deep copy so the result shares no slice with s.
func (s *Scene) Clone() *Scene {
	return &Scene{
		Name:      s.Name,
		Spheres:   append([]Sphere(nil), s.Spheres...),
		Triangles: append([]Triangle(nil), s.Triangles...),
		Planes:    append([]Plane(nil), s.Planes...),
		Lights:    append([]Light(nil), s.Lights...),
	}
}
