package raytracer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_Levels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut, "tracer", false)

	l.Debugf("hidden %d", 1)
	l.Infof("packed %d spheres", 3)
	l.Warnf("missing param %q", "fov")
	l.Errorf("buffer %s failed", "Spheres")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[tracer] INFO: packed 3 spheres")
	assert.NotContains(t, out.String(), "WARN")
	assert.Contains(t, errOut.String(), `[tracer] WARN: missing param "fov"`)
	assert.Contains(t, errOut.String(), "[tracer] ERROR: buffer Spheres failed")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	assert.Equal(t, LevelDebug, l.Level())
	l.Debugf("visible %d", 2)
	assert.Contains(t, out.String(), "[tracer] DEBUG: visible 2")

	l.SetDebug(false)
	assert.Equal(t, LevelInfo, l.Level())
}

func TestDefaultLogger_SetLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut, "", true)

	l.SetLevel(LevelError)
	l.Infof("dropped")
	l.Warnf("dropped too")
	l.Errorf("kept")
	assert.Empty(t, out.String())
	assert.NotContains(t, errOut.String(), "dropped")
	assert.Contains(t, errOut.String(), "ERROR: kept")
	assert.NotContains(t, errOut.String(), "[")

	// Disabling debug never lowers a stricter level.
	l.SetDebug(false)
	assert.Equal(t, LevelError, l.Level())
}

func TestDefaultLogger_Named(t *testing.T) {
	var out bytes.Buffer
	root := NewLoggerTo(&out, &out, "tracer", false)
	packer := root.Named("packer")

	packer.Infof("uploaded %d bytes", 64)
	assert.Contains(t, out.String(), "[tracer/packer] INFO: uploaded 64 bytes")

	root.SetDebug(true)
	assert.True(t, packer.DebugEnabled(), "children share the level")

	assert.Same(t, root, root.Named(""))
	bare := NewLoggerTo(&out, &out, "", false).Named("app")
	bare.Infof("ready")
	assert.Contains(t, out.String(), "[app] INFO: ready")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "Level(9)", Level(9).String())
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	assert.NotNil(t, l)
	assert.False(t, l.DebugEnabled())
	l.Errorf("dropped")
	assert.NotNil(t, l.Named("child"))

	d := NewDefaultLogger("x", true)
	assert.Same(t, d, OrNop(d))
}
