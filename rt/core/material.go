package core

import "github.com/go-gl/mathgl/mgl32"

// Material is the Phong surface description carried by every primitive.
//
// Reflectance is expected in [0,1] (0 matte, 1 perfect mirror). Values
// outside that range are not rejected; the shading result is undefined.
type Material struct {
	Diffuse     mgl32.Vec4 // rgba
	Specular    mgl32.Vec4 // rgba
	Shininess   float32    // Phong exponent
	Reflectance float32
}

func NewMaterial(diffuse, specular mgl32.Vec4, shininess, reflectance float32) Material {
	return Material{
		Diffuse:     diffuse,
		Specular:    specular,
		Shininess:   shininess,
		Reflectance: reflectance,
	}
}

// Matte returns a non-reflective material with a dim white highlight.
func Matte(r, g, b float32) Material {
	return Material{
		Diffuse:   mgl32.Vec4{r, g, b, 1},
		Specular:  mgl32.Vec4{0.2, 0.2, 0.2, 1},
		Shininess: 8,
	}
}

// Mirror returns a grey material reflecting the given fraction of light.
func Mirror(reflectance float32) Material {
	return Material{
		Diffuse:     mgl32.Vec4{0.5, 0.5, 0.5, 1},
		Specular:    mgl32.Vec4{1, 1, 1, 1},
		Shininess:   64,
		Reflectance: reflectance,
	}
}

func Point(x, y, z float32) mgl32.Vec4     { return mgl32.Vec4{x, y, z, 1} }
func Direction(x, y, z float32) mgl32.Vec4 { return mgl32.Vec4{x, y, z, 0} }
func RGB(r, g, b float32) mgl32.Vec4       { return mgl32.Vec4{r, g, b, 1} }
