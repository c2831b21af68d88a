package shaders

import (
	_ "embed"
)

// RaytraceWGSL is the shading stage: it reads the record arrays bound at
// group 0 and writes one pixel per invocation to group 1.
//
//go:embed raytrace.wgsl
var RaytraceWGSL string

//go:embed fullscreen.wgsl
var FullscreenWGSL string
