package scenes

import (
	"reflect"
	"strings"
	"testing"

	"github.com/gekko3d/raytracer/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

func TestRegistryLookup(t *testing.T) {
	names := Names()
	if len(names) != len(All()) {
		t.Fatalf("Names() has %d entries, All() has %d", len(names), len(All()))
	}
	for i, name := range names {
		f, err := ByName(name)
		if err != nil || f.Name != name {
			t.Errorf("ByName(%q) = %q, %v", name, f.Name, err)
		}
		g, err := ByIndex(i)
		if err != nil || g.Name != name {
			t.Errorf("ByIndex(%d) = %q, %v; want %q", i, g.Name, err, name)
		}
		if IndexOf(name) != i {
			t.Errorf("IndexOf(%q) = %d, want %d", name, IndexOf(name), i)
		}
	}

	if _, err := ByName("nope"); err == nil || !strings.Contains(err.Error(), `unknown scene "nope"`) {
		t.Errorf("Expected unknown scene error, got %v", err)
	}
	if _, err := ByIndex(len(names)); err == nil {
		t.Error("Expected error for index past the end")
	}
	if _, err := ByIndex(-1); err == nil {
		t.Error("Expected error for negative index")
	}
	if IndexOf("nope") != -1 {
		t.Error("IndexOf of unknown scene should be -1")
	}

	f, err := ByName("SINGLE-SPHERE")
	if err != nil || f.Name != "single-sphere" {
		t.Errorf("Lookup should ignore case, got %q, %v", f.Name, err)
	}
}

func TestFixturesBuildFreshScenes(t *testing.T) {
	for _, f := range All() {
		a, b := f.Build(), f.Build()
		if a.Name != f.Name {
			t.Errorf("%s builds a scene named %q", f.Name, a.Name)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s must be deterministic", f.Name)
		}
		if len(a.Spheres) > 0 {
			a.Spheres[0].Radius = 99
			if b.Spheres[0].Radius == 99 {
				t.Errorf("%s shares storage between builds", f.Name)
			}
		}
		if len(a.Lights) == 0 {
			t.Errorf("%s has no light", f.Name)
		}
	}
}

func TestFixturesWellFormed(t *testing.T) {
	for _, f := range All() {
		s := f.Build()
		for i, tr := range s.Triangles {
			if tr.Degenerate() {
				t.Errorf("%s triangle %d is degenerate", f.Name, i)
			}
			if tr.A.W() != 1 {
				t.Errorf("%s triangle %d corner w = %f", f.Name, i, tr.A.W())
			}
		}
		for i, p := range s.Planes {
			if l := p.Normal.Vec3().Len(); l < 1-1e-6 || l > 1+1e-6 {
				t.Errorf("%s plane %d normal length %f", f.Name, i, l)
			}
			if p.Normal.W() != 0 {
				t.Errorf("%s plane %d normal w = %f", f.Name, i, p.Normal.W())
			}
		}
		for i, sp := range s.Spheres {
			if sp.Radius <= 0 {
				t.Errorf("%s sphere %d radius %f", f.Name, i, sp.Radius)
			}
			if sp.Center.W() != 1 {
				t.Errorf("%s sphere %d center w = %f", f.Name, i, sp.Center.W())
			}
		}
	}
}

func TestSingleSphere(t *testing.T) {
	s := SingleSphere()
	if len(s.Spheres) != 1 || len(s.Triangles) != 0 || len(s.Planes) != 0 || len(s.Lights) != 1 {
		t.Fatalf("Expected 1 sphere and 1 light only, got %d/%d/%d/%d",
			len(s.Spheres), len(s.Triangles), len(s.Planes), len(s.Lights))
	}

	sp := s.Spheres[0]
	if sp.Center != (mgl32.Vec4{0, -1.75, -6.69, 1}) {
		t.Errorf("Sphere center %v", sp.Center)
	}
	if sp.Radius != 1 || sp.Reflectance != 0.5 {
		t.Errorf("Sphere radius %f reflectance %f", sp.Radius, sp.Reflectance)
	}
	if sp.Diffuse != (mgl32.Vec4{0.5, 0.5, 0.5, 1}) {
		t.Errorf("Sphere diffuse %v", sp.Diffuse)
	}

	l := s.Lights[0]
	if l.Center != (mgl32.Vec4{0, 2.4, -7.75, 1}) || l.Intensity != 0.5 {
		t.Errorf("Light center %v intensity %f", l.Center, l.Intensity)
	}
	if !l.IsPoint() {
		t.Error("Expected a point light")
	}
}

func TestCornellRoomWallsFaceInward(t *testing.T) {
	s := CornellRoom()
	center := mgl32.Vec3{0, 0, -7.75}
	// walls follow the four pyramid faces
	for i, tr := range s.Triangles[4:] {
		toCenter := center.Sub(tr.A.Vec3())
		if tr.FaceNormal().Dot(toCenter) <= 0 {
			t.Errorf("Wall triangle %d faces outward", i)
		}
	}
}

func TestCameraSeesSomething(t *testing.T) {
	cam := core.NewCameraState()
	for _, f := range All() {
		s := f.Build()
		if len(s.Planes) == 0 {
			continue
		}
		if _, ok := s.Intersect(cam.PrimaryRay(32, 32, 64, 64)); !ok {
			t.Errorf("%s: centre ray hits nothing", f.Name)
		}
	}
}
