package shaders

import (
	"regexp"
	"strings"
	"testing"
)

func TestHitKindsAreNamed(t *testing.T) {
	kinds := map[string]bool{}
	for _, m := range regexp.MustCompile(`const (KIND_\w+): u32 = \d+u;`).FindAllStringSubmatch(RaytraceWGSL, -1) {
		kinds[m[1]] = true
	}
	for _, name := range []string{"KIND_NONE", "KIND_SPHERE", "KIND_TRIANGLE", "KIND_PLANE"} {
		if !kinds[name] {
			t.Errorf("raytrace.wgsl does not declare %s", name)
		}
	}

	cases := regexp.MustCompile(`case\s+([^:]+):`).FindAllStringSubmatch(RaytraceWGSL, -1)
	if len(cases) == 0 {
		t.Fatal("Expected a switch over hit kinds in raytrace.wgsl")
	}
	for _, c := range cases {
		sel := strings.TrimSpace(c[1])
		if !kinds[sel] {
			t.Errorf("switch case %q should use a KIND_ constant", sel)
		}
	}
}

func TestShadersEmbedded(t *testing.T) {
	if !strings.Contains(RaytraceWGSL, "@compute") {
		t.Error("RaytraceWGSL has no compute entry point")
	}
	if !strings.Contains(FullscreenWGSL, "@vertex") || !strings.Contains(FullscreenWGSL, "@fragment") {
		t.Error("FullscreenWGSL should have vertex and fragment entry points")
	}
}
