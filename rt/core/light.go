package core

import "github.com/go-gl/mathgl/mgl32"

// Light is a point light, or an area light proxy when Radius > 0.
type Light struct {
	Center    mgl32.Vec4 // xyz, w=1
	Color     mgl32.Vec4 // rgb, a unused
	Radius    float32
	Intensity float32
}

func NewPointLight(center mgl32.Vec4, intensity float32) Light {
	return Light{
		Center:    center,
		Color:     mgl32.Vec4{1, 1, 1, 1},
		Intensity: intensity,
	}
}

func (l Light) IsPoint() bool { return l.Radius == 0 }
