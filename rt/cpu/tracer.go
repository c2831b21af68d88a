package cpu

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/raytracer/rt/core"
)

// Tracer renders a scene on the CPU with the same shading model as
// raytrace.wgsl. It is used for headless renders and as a reference in
// tests.
type Tracer struct {
	MaxDepth int
	Ambient  float32
	// Background is returned for rays that hit nothing. The GPU path always
	// uses black.
	Background mgl32.Vec3
}

func NewTracer(maxDepth int, ambient float32) *Tracer {
	return &Tracer{MaxDepth: maxDepth, Ambient: ambient}
}

// Render traces one primary ray per pixel.
func (t *Tracer) Render(scene *core.Scene, cam *core.CameraState, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if scene == nil {
		scene = &core.Scene{}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := t.Trace(scene, cam.PrimaryRay(x, y, w, h), 0)
			img.SetRGBA(x, y, toRGBA(c))
		}
	}
	return img
}

// Trace returns the color seen along r. depth is the number of bounces
// already taken; at MaxDepth the surface is shaded without reflection.
func (t *Tracer) Trace(scene *core.Scene, r core.Ray, depth int) mgl32.Vec3 {
	hit, ok := scene.Intersect(r)
	if !ok {
		return t.Background
	}
	n := hit.Normal
	if n.Dot(r.Direction) > 0 {
		n = n.Mul(-1)
	}
	local := t.shade(scene, hit, n, r.Direction.Mul(-1))

	k := hit.Material.Reflectance
	if depth >= t.MaxDepth || k <= 0 {
		return local
	}
	bounce := core.NewRay(hit.Point.Add(n.Mul(core.Epsilon)), reflect(r.Direction, n))
	return local.Mul(1 - k).Add(t.Trace(scene, bounce, depth+1).Mul(k))
}

func (t *Tracer) shade(scene *core.Scene, hit core.Hit, n, view mgl32.Vec3) mgl32.Vec3 {
	diffuse := hit.Material.Diffuse.Vec3()
	specular := hit.Material.Specular.Vec3()
	color := diffuse.Mul(t.Ambient)
	origin := hit.Point.Add(n.Mul(core.Epsilon))

	for _, light := range scene.Lights {
		toLight := light.Center.Vec3().Sub(hit.Point)
		dist := toLight.Len()
		if dist < core.Epsilon {
			continue
		}
		l := toLight.Mul(1 / dist)
		ndotl := n.Dot(l)
		if ndotl <= 0 {
			continue
		}
		if scene.Occluded(core.Ray{Origin: origin, Direction: l}, dist) {
			continue
		}
		spec := math32.Pow(math32.Max(reflect(l.Mul(-1), n).Dot(view), 0), hit.Material.Shininess)
		radiance := light.Color.Vec3().Mul(light.Intensity)
		term := diffuse.Mul(ndotl).Add(specular.Mul(spec))
		color = color.Add(mul(radiance, term))
	}
	return color
}

func reflect(d, n mgl32.Vec3) mgl32.Vec3 {
	return d.Sub(n.Mul(2 * d.Dot(n)))
}

func mul(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func toRGBA(c mgl32.Vec3) color.RGBA {
	ch := func(v float32) uint8 {
		return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
	}
	return color.RGBA{R: ch(c[0]), G: ch(c[1]), B: ch(c[2]), A: 255}
}
