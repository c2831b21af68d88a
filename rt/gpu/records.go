package gpu

import (
	"unsafe"

	"github.com/gekko3d/raytracer/rt/core"
)

// Record layouts follow WGSL storage-buffer rules: vec4<f32> is 16-byte
// aligned, scalars are 4-byte aligned and every struct is padded to a
// multiple of 16 bytes so that array<T> has no implicit stride padding.
// Padding is always written as zero.

// GPUSphere mirrors `struct Sphere` in raytrace.wgsl. Size: 64 bytes.
type GPUSphere struct {
	Center      [4]float32 // offset 0
	Diffuse     [4]float32 // offset 16
	Specular    [4]float32 // offset 32
	Shininess   float32    // offset 48
	Radius      float32    // offset 52
	Reflectance float32    // offset 56
	_pad0       float32    // offset 60
}

// GPUPlane mirrors `struct Plane`. Size: 80 bytes.
type GPUPlane struct {
	Normal      [4]float32 // offset 0
	Point       [4]float32 // offset 16
	Diffuse     [4]float32 // offset 32
	Specular    [4]float32 // offset 48
	Shininess   float32    // offset 64
	Reflectance float32    // offset 68
	_pad0       float32    // offset 72
	_pad1       float32    // offset 76
}

// GPUTriangle mirrors `struct Triangle`. Size: 96 bytes.
type GPUTriangle struct {
	A           [4]float32 // offset 0
	B           [4]float32 // offset 16
	C           [4]float32 // offset 32
	Diffuse     [4]float32 // offset 48
	Specular    [4]float32 // offset 64
	Shininess   float32    // offset 80
	Reflectance float32    // offset 84
	_pad0       float32    // offset 88
	_pad1       float32    // offset 92
}

// GPULight mirrors `struct Light`. Size: 48 bytes.
type GPULight struct {
	Center    [4]float32 // offset 0
	Color     [4]float32 // offset 16
	Radius    float32    // offset 32
	Intensity float32    // offset 36
	_pad0     float32    // offset 40
	_pad1     float32    // offset 44
}

const (
	SphereSize   = int(unsafe.Sizeof(GPUSphere{}))
	PlaneSize    = int(unsafe.Sizeof(GPUPlane{}))
	TriangleSize = int(unsafe.Sizeof(GPUTriangle{}))
	LightSize    = int(unsafe.Sizeof(GPULight{}))
)

// Fails to compile unless every record is a multiple of 16 bytes.
var (
	_ = [1]struct{}{}[unsafe.Sizeof(GPUSphere{})%16]
	_ = [1]struct{}{}[unsafe.Sizeof(GPUPlane{})%16]
	_ = [1]struct{}{}[unsafe.Sizeof(GPUTriangle{})%16]
	_ = [1]struct{}{}[unsafe.Sizeof(GPULight{})%16]
)

var SphereLayout = Layout{
	Name: "Sphere",
	Size: SphereSize,
	Fields: []Field{
		{"center", 0, KindVec4},
		{"diffuse", 16, KindVec4},
		{"specular", 32, KindVec4},
		{"shininess", 48, KindF32},
		{"radius", 52, KindF32},
		{"reflectance", 56, KindF32},
		{"pad0", 60, KindF32},
	},
}

var PlaneLayout = Layout{
	Name: "Plane",
	Size: PlaneSize,
	Fields: []Field{
		{"normal", 0, KindVec4},
		{"point", 16, KindVec4},
		{"diffuse", 32, KindVec4},
		{"specular", 48, KindVec4},
		{"shininess", 64, KindF32},
		{"reflectance", 68, KindF32},
		{"pad0", 72, KindF32},
		{"pad1", 76, KindF32},
	},
}

var TriangleLayout = Layout{
	Name: "Triangle",
	Size: TriangleSize,
	Fields: []Field{
		{"a", 0, KindVec4},
		{"b", 16, KindVec4},
		{"c", 32, KindVec4},
		{"diffuse", 48, KindVec4},
		{"specular", 64, KindVec4},
		{"shininess", 80, KindF32},
		{"reflectance", 84, KindF32},
		{"pad0", 88, KindF32},
		{"pad1", 92, KindF32},
	},
}

var LightLayout = Layout{
	Name: "Light",
	Size: LightSize,
	Fields: []Field{
		{"center", 0, KindVec4},
		{"color", 16, KindVec4},
		{"radius", 32, KindF32},
		{"intensity", 36, KindF32},
		{"pad0", 40, KindF32},
		{"pad1", 44, KindF32},
	},
}

func NewGPUSphere(s core.Sphere) GPUSphere {
	return GPUSphere{
		Center:      s.Center,
		Diffuse:     s.Diffuse,
		Specular:    s.Specular,
		Shininess:   s.Shininess,
		Radius:      s.Radius,
		Reflectance: s.Reflectance,
	}
}

func (g *GPUSphere) Size() int { return SphereSize }

// MarshalTo writes the record into the first SphereSize bytes of buf.
func (g *GPUSphere) MarshalTo(buf []byte) {
	putVec4(buf, 0, g.Center)
	putVec4(buf, 16, g.Diffuse)
	putVec4(buf, 32, g.Specular)
	putF32(buf, 48, g.Shininess)
	putF32(buf, 52, g.Radius)
	putF32(buf, 56, g.Reflectance)
	putU32(buf, 60, 0) // _pad0
}

func (g *GPUSphere) Marshal() []byte {
	buf := make([]byte, SphereSize)
	g.MarshalTo(buf)
	return buf
}

func NewGPUPlane(p core.Plane) GPUPlane {
	return GPUPlane{
		Normal:      p.Normal,
		Point:       p.Point,
		Diffuse:     p.Diffuse,
		Specular:    p.Specular,
		Shininess:   p.Shininess,
		Reflectance: p.Reflectance,
	}
}

func (g *GPUPlane) Size() int { return PlaneSize }

func (g *GPUPlane) MarshalTo(buf []byte) {
	putVec4(buf, 0, g.Normal)
	putVec4(buf, 16, g.Point)
	putVec4(buf, 32, g.Diffuse)
	putVec4(buf, 48, g.Specular)
	putF32(buf, 64, g.Shininess)
	putF32(buf, 68, g.Reflectance)
	putU32(buf, 72, 0) // _pad0
	putU32(buf, 76, 0) // _pad1
}

func (g *GPUPlane) Marshal() []byte {
	buf := make([]byte, PlaneSize)
	g.MarshalTo(buf)
	return buf
}

func NewGPUTriangle(t core.Triangle) GPUTriangle {
	return GPUTriangle{
		A:           t.A,
		B:           t.B,
		C:           t.C,
		Diffuse:     t.Diffuse,
		Specular:    t.Specular,
		Shininess:   t.Shininess,
		Reflectance: t.Reflectance,
	}
}

func (g *GPUTriangle) Size() int { return TriangleSize }

func (g *GPUTriangle) MarshalTo(buf []byte) {
	putVec4(buf, 0, g.A)
	putVec4(buf, 16, g.B)
	putVec4(buf, 32, g.C)
	putVec4(buf, 48, g.Diffuse)
	putVec4(buf, 64, g.Specular)
	putF32(buf, 80, g.Shininess)
	putF32(buf, 84, g.Reflectance)
	putU32(buf, 88, 0) // _pad0
	putU32(buf, 92, 0) // _pad1
}

func (g *GPUTriangle) Marshal() []byte {
	buf := make([]byte, TriangleSize)
	g.MarshalTo(buf)
	return buf
}

func NewGPULight(l core.Light) GPULight {
	return GPULight{
		Center:    l.Center,
		Color:     l.Color,
		Radius:    l.Radius,
		Intensity: l.Intensity,
	}
}

func (g *GPULight) Size() int { return LightSize }

func (g *GPULight) MarshalTo(buf []byte) {
	putVec4(buf, 0, g.Center)
	putVec4(buf, 16, g.Color)
	putF32(buf, 32, g.Radius)
	putF32(buf, 36, g.Intensity)
	putU32(buf, 40, 0) // _pad0
	putU32(buf, 44, 0) // _pad1
}

func (g *GPULight) Marshal() []byte {
	buf := make([]byte, LightSize)
	g.MarshalTo(buf)
	return buf
}

// EncodeSpheres concatenates the records of spheres in order. An empty
// input yields an empty, non-nil slice.
func EncodeSpheres(spheres []core.Sphere) []byte {
	buf := make([]byte, len(spheres)*SphereSize)
	for i, s := range spheres {
		rec := NewGPUSphere(s)
		rec.MarshalTo(buf[i*SphereSize:])
	}
	return buf
}

func EncodePlanes(planes []core.Plane) []byte {
	buf := make([]byte, len(planes)*PlaneSize)
	for i, p := range planes {
		rec := NewGPUPlane(p)
		rec.MarshalTo(buf[i*PlaneSize:])
	}
	return buf
}

// EncodeTriangles keeps the caller's corner order; winding is the shader's
// concern.
func EncodeTriangles(triangles []core.Triangle) []byte {
	buf := make([]byte, len(triangles)*TriangleSize)
	for i, t := range triangles {
		rec := NewGPUTriangle(t)
		rec.MarshalTo(buf[i*TriangleSize:])
	}
	return buf
}

func EncodeLights(lights []core.Light) []byte {
	buf := make([]byte, len(lights)*LightSize)
	for i, l := range lights {
		rec := NewGPULight(l)
		rec.MarshalTo(buf[i*LightSize:])
	}
	return buf
}

func DecodeSphere(buf []byte) core.Sphere {
	return core.Sphere{
		Center: getVec4(buf, 0),
		Radius: getF32(buf, 52),
		Material: core.Material{
			Diffuse:     getVec4(buf, 16),
			Specular:    getVec4(buf, 32),
			Shininess:   getF32(buf, 48),
			Reflectance: getF32(buf, 56),
		},
	}
}

func DecodePlane(buf []byte) core.Plane {
	return core.Plane{
		Normal: getVec4(buf, 0),
		Point:  getVec4(buf, 16),
		Material: core.Material{
			Diffuse:     getVec4(buf, 32),
			Specular:    getVec4(buf, 48),
			Shininess:   getF32(buf, 64),
			Reflectance: getF32(buf, 68),
		},
	}
}

func DecodeTriangle(buf []byte) core.Triangle {
	return core.Triangle{
		A: getVec4(buf, 0),
		B: getVec4(buf, 16),
		C: getVec4(buf, 32),
		Material: core.Material{
			Diffuse:     getVec4(buf, 48),
			Specular:    getVec4(buf, 64),
			Shininess:   getF32(buf, 80),
			Reflectance: getF32(buf, 84),
		},
	}
}

func DecodeLight(buf []byte) core.Light {
	return core.Light{
		Center:    getVec4(buf, 0),
		Color:     getVec4(buf, 16),
		Radius:    getF32(buf, 32),
		Intensity: getF32(buf, 36),
	}
}
