package gpu

import (
	"encoding/binary"
	"math"
)

func putF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

func putU32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:], v)
}

func putVec4(buf []byte, off int, v [4]float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(v[2]))
	binary.LittleEndian.PutUint32(buf[off+12:], math.Float32bits(v[3]))
}

// putMat4 writes m column-major, matching mat4x4<f32>.
func putMat4(buf []byte, off int, m [16]float32) {
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[off+i*4:], math.Float32bits(v))
	}
}

func getF32(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func getU32(buf []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(buf[off:])
}

func getVec4(buf []byte, off int) [4]float32 {
	return [4]float32{
		getF32(buf, off),
		getF32(buf, off+4),
		getF32(buf, off+8),
		getF32(buf, off+12),
	}
}

func getMat4(buf []byte, off int) [16]float32 {
	var m [16]float32
	for i := range m {
		m[i] = getF32(buf, off+i*4)
	}
	return m
}
