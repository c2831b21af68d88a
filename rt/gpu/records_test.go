package gpu

import (
	"bytes"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"unsafe"

	"github.com/gekko3d/raytracer/rt/core"
	"github.com/gekko3d/raytracer/rt/shaders"
)

var (
	wgslStructRe = regexp.MustCompile(`(?s)struct\s+(\w+)\s*\{(.*?)\}`)
	wgslFieldRe  = regexp.MustCompile(`(\w+)\s*:\s*([\w<>]+)\s*,?`)
)

var wgslKinds = map[string]FieldKind{
	"f32":         KindF32,
	"i32":         KindI32,
	"u32":         KindU32,
	"vec4<f32>":   KindVec4,
	"mat4x4<f32>": KindMat4,
}

// parseWGSLLayouts computes storage-buffer offsets for every struct declared
// in src that only uses the scalar, vec4 and mat4 types.
func parseWGSLLayouts(t *testing.T, src string) map[string]Layout {
	t.Helper()
	out := map[string]Layout{}
	for _, m := range wgslStructRe.FindAllStringSubmatch(src, -1) {
		l := Layout{Name: m[1]}
		offset, maxAlign, ok := 0, 4, true
		for _, line := range strings.Split(m[2], "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "//") {
				continue
			}
			fm := wgslFieldRe.FindStringSubmatch(line)
			if fm == nil {
				continue
			}
			kind, known := wgslKinds[fm[2]]
			if !known || strings.HasPrefix(line, "@") {
				ok = false
				break
			}
			if a := kind.Align(); offset%a != 0 {
				offset += a - offset%a
			}
			if kind.Align() > maxAlign {
				maxAlign = kind.Align()
			}
			l.Fields = append(l.Fields, Field{Name: fm[1], Offset: offset, Kind: kind})
			offset += kind.Size()
		}
		if !ok {
			continue
		}
		if offset%maxAlign != 0 {
			offset += maxAlign - offset%maxAlign
		}
		l.Size = offset
		out[l.Name] = l
	}
	return out
}

func TestLayoutsMatchShader(t *testing.T) {
	parsed := parseWGSLLayouts(t, shaders.RaytraceWGSL)
	for _, want := range []Layout{SphereLayout, TriangleLayout, PlaneLayout, LightLayout, ParamsLayout} {
		got, ok := parsed[want.Name]
		if !ok {
			t.Errorf("struct %s not declared in shader", want.Name)
			continue
		}
		if !reflect.DeepEqual(want, got) {
			t.Errorf("%s layout mismatch:\n go:   %+v\n wgsl: %+v", want.Name, want, got)
		}
		if err := want.Validate(); err != nil {
			t.Errorf("%s: %v", want.Name, err)
		}
	}
}

func TestShaderBindingsMatchSlots(t *testing.T) {
	for _, slot := range append([]Slot{SlotParams}, SceneSlots[:]...) {
		re := regexp.MustCompile(fmt.Sprintf(
			`@group\(0\)\s*@binding\(%d\)\s*var<[^>]*>\s*\w+\s*:\s*(array<)?(\w+)>?;\s*//\s*Slot%s`,
			uint32(slot), slot))
		m := re.FindStringSubmatch(shaders.RaytraceWGSL)
		if m == nil {
			t.Errorf("No binding for %s in shader", slot)
			continue
		}
		if m[2] != slot.RecordLayout().Name {
			t.Errorf("Binding %s holds %s, want %s", slot, m[2], slot.RecordLayout().Name)
		}
	}
}

func TestRecordSizesMatchGoStructs(t *testing.T) {
	sizes := map[string][2]int{
		"Sphere":   {SphereSize, 64},
		"Plane":    {PlaneSize, 80},
		"Triangle": {TriangleSize, 96},
		"Light":    {LightSize, 48},
	}
	for name, s := range sizes {
		if s[0] != s[1] {
			t.Errorf("%s size %d, want %d", name, s[0], s[1])
		}
	}

	offsets := []struct {
		goOff uintptr
		field Field
	}{
		{unsafe.Offsetof(GPUSphere{}.Radius), mustField(t, SphereLayout, "radius")},
		{unsafe.Offsetof(GPUSphere{}.Reflectance), mustField(t, SphereLayout, "reflectance")},
		{unsafe.Offsetof(GPUPlane{}.Shininess), mustField(t, PlaneLayout, "shininess")},
		{unsafe.Offsetof(GPUTriangle{}.Specular), mustField(t, TriangleLayout, "specular")},
		{unsafe.Offsetof(GPULight{}.Intensity), mustField(t, LightLayout, "intensity")},
	}
	for _, o := range offsets {
		if int(o.goOff) != o.field.Offset {
			t.Errorf("Go offset of %s is %d, layout says %d", o.field.Name, o.goOff, o.field.Offset)
		}
	}

	for _, slot := range SceneSlots {
		if slot.RecordLayout().Size%16 != 0 {
			t.Errorf("%s record size %d is not a multiple of 16", slot, slot.RecordLayout().Size)
		}
	}
}

func mustField(t *testing.T, l Layout, name string) Field {
	t.Helper()
	f, ok := l.Field(name)
	if !ok {
		t.Fatalf("%s.%s not in layout", l.Name, name)
	}
	return f
}

func sampleMaterial(seed float32) core.Material {
	return core.Material{
		Diffuse:     core.RGB(0.1*seed, 0.2, 0.3),
		Specular:    core.RGB(0.9, 0.8, 0.7*seed),
		Shininess:   16 + seed,
		Reflectance: 0.25 * seed,
	}
}

// fieldAt reads a scalar or the xyz(w) of a vector at the offset the shader
// declares for name.
func fieldAt(t *testing.T, l Layout, buf []byte, name string) any {
	t.Helper()
	f := mustField(t, l, name)
	switch f.Kind {
	case KindVec4:
		return [4]float32(getVec4(buf, f.Offset))
	case KindU32:
		return getU32(buf, f.Offset)
	default:
		return getF32(buf, f.Offset)
	}
}

// checkFields compares each named field of buf, read at the shader's
// offsets, with the expected value.
func checkFields(t *testing.T, l Layout, buf []byte, want map[string]any) {
	t.Helper()
	for name, w := range want {
		if got := fieldAt(t, l, buf, name); got != w {
			t.Errorf("%s.%s = %v, want %v", l.Name, name, got, w)
		}
	}
}

func checkLen(t *testing.T, buf []byte, n int) {
	t.Helper()
	if len(buf) != n {
		t.Fatalf("Expected %d bytes, got %d", n, len(buf))
	}
}

func TestSphereRecordAtShaderOffsets(t *testing.T) {
	parsed := parseWGSLLayouts(t, shaders.RaytraceWGSL)["Sphere"]
	s := core.Sphere{Center: core.Point(1, -2, 3), Radius: 0.75, Material: sampleMaterial(2)}
	rec := NewGPUSphere(s)
	buf := rec.Marshal()
	checkLen(t, buf, SphereSize)

	checkFields(t, parsed, buf, map[string]any{
		"center":      [4]float32(s.Center),
		"diffuse":     [4]float32(s.Diffuse),
		"specular":    [4]float32(s.Specular),
		"shininess":   s.Shininess,
		"radius":      s.Radius,
		"reflectance": s.Reflectance,
		"pad0":        float32(0),
	})
	if got := DecodeSphere(buf); !reflect.DeepEqual(s, got) {
		t.Errorf("DecodeSphere = %+v, want %+v", got, s)
	}
}

func TestPlaneRecordAtShaderOffsets(t *testing.T) {
	parsed := parseWGSLLayouts(t, shaders.RaytraceWGSL)["Plane"]
	p := core.Plane{Normal: core.Direction(0, 1, 0), Point: core.Point(0, -2.75, 0), Material: sampleMaterial(3)}
	rec := NewGPUPlane(p)
	buf := rec.Marshal()
	checkLen(t, buf, PlaneSize)

	checkFields(t, parsed, buf, map[string]any{
		"normal":      [4]float32(p.Normal),
		"point":       [4]float32(p.Point),
		"diffuse":     [4]float32(p.Diffuse),
		"shininess":   p.Shininess,
		"reflectance": p.Reflectance,
	})
	if got := DecodePlane(buf); !reflect.DeepEqual(p, got) {
		t.Errorf("DecodePlane = %+v, want %+v", got, p)
	}
}

func TestTriangleRecordAtShaderOffsets(t *testing.T) {
	parsed := parseWGSLLayouts(t, shaders.RaytraceWGSL)["Triangle"]
	tr := core.Triangle{A: core.Point(0, 0, -5), B: core.Point(1, 0, -5), C: core.Point(0, 1, -5), Material: sampleMaterial(1)}
	rec := NewGPUTriangle(tr)
	buf := rec.Marshal()
	checkLen(t, buf, TriangleSize)

	checkFields(t, parsed, buf, map[string]any{
		"a":           [4]float32(tr.A),
		"b":           [4]float32(tr.B),
		"c":           [4]float32(tr.C),
		"specular":    [4]float32(tr.Specular),
		"reflectance": tr.Reflectance,
	})
	if got := DecodeTriangle(buf); !reflect.DeepEqual(tr, got) {
		t.Errorf("DecodeTriangle = %+v, want %+v", got, tr)
	}
}

func TestLightRecordAtShaderOffsets(t *testing.T) {
	parsed := parseWGSLLayouts(t, shaders.RaytraceWGSL)["Light"]
	l := core.Light{Center: core.Point(0, 2.4, -7.75), Color: core.RGB(1, 0.9, 0.8), Radius: 0.5, Intensity: 0.8}
	rec := NewGPULight(l)
	buf := rec.Marshal()
	checkLen(t, buf, LightSize)

	checkFields(t, parsed, buf, map[string]any{
		"center":    [4]float32(l.Center),
		"color":     [4]float32(l.Color),
		"radius":    l.Radius,
		"intensity": l.Intensity,
	})
	if got := DecodeLight(buf); !reflect.DeepEqual(l, got) {
		t.Errorf("DecodeLight = %+v, want %+v", got, l)
	}
}

func TestPaddingIsZeroed(t *testing.T) {
	buf := make([]byte, TriangleSize)
	for i := range buf {
		buf[i] = 0xAB
	}
	rec := NewGPUTriangle(core.Triangle{Material: sampleMaterial(1)})
	rec.MarshalTo(buf)
	for _, name := range []string{"pad0", "pad1"} {
		f := mustField(t, TriangleLayout, name)
		if !bytes.Equal(buf[f.Offset:f.Offset+4], []byte{0, 0, 0, 0}) {
			t.Errorf("Triangle %s not zeroed: % x", name, buf[f.Offset:f.Offset+4])
		}
	}

	buf = make([]byte, SphereSize)
	for i := range buf {
		buf[i] = 0xFF
	}
	srec := NewGPUSphere(core.Sphere{})
	srec.MarshalTo(buf)
	if !bytes.Equal(buf, make([]byte, SphereSize)) {
		t.Errorf("Zero sphere should encode to zeros, got % x", buf)
	}
}

func TestEncodeConcatenatesInOrder(t *testing.T) {
	spheres := []core.Sphere{
		{Center: core.Point(0, 0, -1), Radius: 1},
		{Center: core.Point(0, 0, -2), Radius: 2},
		{Center: core.Point(0, 0, -3), Radius: 3},
	}
	buf := EncodeSpheres(spheres)
	checkLen(t, buf, 3*SphereSize)
	for i, s := range spheres {
		if got := DecodeSphere(buf[i*SphereSize:]); !reflect.DeepEqual(s, got) {
			t.Errorf("Sphere %d = %+v, want %+v", i, got, s)
		}
	}

	for i, empty := range [][]byte{EncodeSpheres(nil), EncodeTriangles(nil), EncodePlanes(nil), EncodeLights(nil)} {
		if empty == nil || len(empty) != 0 {
			t.Errorf("Encoder %d should return an empty non-nil slice, got %v", i, empty)
		}
	}
}

func TestEncodeTrianglesKeepsWinding(t *testing.T) {
	a, b, c := core.Point(0, 0, 0), core.Point(1, 0, 0), core.Point(0, 1, 0)
	ccw := core.Triangle{A: a, B: b, C: c}
	cw := core.Triangle{A: a, B: c, C: b}

	buf := EncodeTriangles([]core.Triangle{ccw, cw})
	if got := DecodeTriangle(buf); !reflect.DeepEqual(ccw, got) {
		t.Errorf("First triangle = %+v, want %+v", got, ccw)
	}
	if got := DecodeTriangle(buf[TriangleSize:]); !reflect.DeepEqual(cw, got) {
		t.Errorf("Second triangle = %+v, want %+v", got, cw)
	}
}

func TestLayoutValidate(t *testing.T) {
	cases := []struct {
		layout Layout
		want   string
	}{
		{Layout{Name: "Bad", Size: 20, Fields: []Field{{"a", 0, KindVec4}, {"b", 16, KindF32}}}, "multiple of 16"},
		{Layout{Name: "Bad", Size: 32, Fields: []Field{{"a", 0, KindF32}, {"b", 4, KindVec4}, {"c", 20, KindF32}}}, "not aligned"},
		{Layout{Name: "Bad", Size: 32, Fields: []Field{{"a", 0, KindVec4}}}, "fields end at 16"},
	}
	for _, c := range cases {
		err := c.layout.Validate()
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Errorf("Validate(%+v) = %v, want error containing %q", c.layout, err, c.want)
		}
	}
}
