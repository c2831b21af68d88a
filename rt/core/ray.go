package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon bounds self-intersection and parallel-ray tests.
const Epsilon float32 = 1e-4

// degenerateArea is the smallest |e1 x e2| (twice the area) a triangle must
// have to be intersected at all.
const degenerateArea float32 = 1e-8

type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

func NewRay(origin, direction mgl32.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

type PrimitiveKind uint8

const (
	KindNone PrimitiveKind = iota
	KindSphere
	KindTriangle
	KindPlane
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindTriangle:
		return "triangle"
	case KindPlane:
		return "plane"
	}
	return "none"
}

type Hit struct {
	T        float32
	Point    mgl32.Vec3
	Normal   mgl32.Vec3 // unit, front-facing along the stored winding
	Material Material
	Kind     PrimitiveKind
	Index    int
}

func (s Sphere) Intersect(r Ray) (float32, bool) {
	c := s.Center.Vec3()
	oc := r.Origin.Sub(c)
	a := r.Direction.Dot(r.Direction)
	b := oc.Dot(r.Direction)
	cc := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - a*cc
	if disc < 0 || a == 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)
	if t := (-b - sq) / a; t > Epsilon {
		return t, true
	}
	if t := (-b + sq) / a; t > Epsilon {
		return t, true
	}
	return 0, false
}

func (s Sphere) NormalAt(p mgl32.Vec3) mgl32.Vec3 {
	return p.Sub(s.Center.Vec3()).Normalize()
}

func (p Plane) Intersect(r Ray) (float32, bool) {
	n := p.Normal.Vec3()
	dn := r.Direction.Dot(n)
	if math32.Abs(dn) < Epsilon {
		return 0, false
	}
	t := p.Point.Vec3().Sub(r.Origin).Dot(n) / dn
	if t <= Epsilon {
		return 0, false
	}
	return t, true
}

// Degenerate reports whether the triangle has (numerically) zero area.
func (tr Triangle) Degenerate() bool {
	e1 := tr.B.Vec3().Sub(tr.A.Vec3())
	e2 := tr.C.Vec3().Sub(tr.A.Vec3())
	return e1.Cross(e2).Len() < degenerateArea
}

// FaceNormal derives the unit normal from the edge cross product; the
// counter-clockwise side is the front.
func (tr Triangle) FaceNormal() mgl32.Vec3 {
	e1 := tr.B.Vec3().Sub(tr.A.Vec3())
	e2 := tr.C.Vec3().Sub(tr.A.Vec3())
	return e1.Cross(e2).Normalize()
}

// Intersect is a two-sided Moller-Trumbore test. Degenerate triangles never
// hit.
func (tr Triangle) Intersect(r Ray) (float32, bool) {
	if tr.Degenerate() {
		return 0, false
	}
	a := tr.A.Vec3()
	e1 := tr.B.Vec3().Sub(a)
	e2 := tr.C.Vec3().Sub(a)
	pvec := r.Direction.Cross(e2)
	det := e1.Dot(pvec)
	if math32.Abs(det) < 1e-8 {
		return 0, false
	}
	inv := 1 / det
	tvec := r.Origin.Sub(a)
	u := tvec.Dot(pvec) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	qvec := tvec.Cross(e1)
	v := r.Direction.Dot(qvec) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(qvec) * inv
	if t <= Epsilon {
		return 0, false
	}
	return t, true
}

// Intersect returns the closest hit along r. Spheres are tested before
// triangles before planes and a later primitive must be strictly closer to
// win, so equal distances resolve to the lowest index.
func (s *Scene) Intersect(r Ray) (Hit, bool) {
	best := Hit{T: math32.Inf(1)}
	for i, sp := range s.Spheres {
		if t, ok := sp.Intersect(r); ok && t < best.T {
			best = Hit{T: t, Material: sp.Material, Kind: KindSphere, Index: i}
		}
	}
	for i, tr := range s.Triangles {
		if t, ok := tr.Intersect(r); ok && t < best.T {
			best = Hit{T: t, Material: tr.Material, Kind: KindTriangle, Index: i}
		}
	}
	for i, pl := range s.Planes {
		if t, ok := pl.Intersect(r); ok && t < best.T {
			best = Hit{T: t, Material: pl.Material, Kind: KindPlane, Index: i}
		}
	}
	if best.Kind == KindNone {
		return Hit{}, false
	}

	best.Point = r.At(best.T)
	switch best.Kind {
	case KindSphere:
		best.Normal = s.Spheres[best.Index].NormalAt(best.Point)
	case KindTriangle:
		best.Normal = s.Triangles[best.Index].FaceNormal()
	case KindPlane:
		best.Normal = s.Planes[best.Index].Normal.Vec3().Normalize()
	}
	return best, true
}

// Occluded reports whether anything blocks r before maxT.
func (s *Scene) Occluded(r Ray, maxT float32) bool {
	for _, sp := range s.Spheres {
		if t, ok := sp.Intersect(r); ok && t < maxT {
			return true
		}
	}
	for _, tr := range s.Triangles {
		if t, ok := tr.Intersect(r); ok && t < maxT {
			return true
		}
	}
	for _, pl := range s.Planes {
		if t, ok := pl.Intersect(r); ok && t < maxT {
			return true
		}
	}
	return false
}
