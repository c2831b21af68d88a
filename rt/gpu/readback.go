package gpu

import (
	"errors"
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// AlignedBytesPerRow is the row pitch of an RGBA8 texture copy, padded to
// the 256-byte alignment texture-to-buffer copies require.
func AlignedBytesPerRow(width uint32) uint32 {
	return (width*4 + 255) & ^uint32(255)
}

// UnpackRGBA strips row padding from a texture copy.
func UnpackRGBA(data []byte, width, height, bytesPerRow uint32) (*image.RGBA, error) {
	var need uint64
	if width > 0 && height > 0 {
		need = uint64(bytesPerRow)*uint64(height-1) + uint64(width)*4
	}
	if bytesPerRow < width*4 {
		return nil, fmt.Errorf("row pitch %d shorter than row of %d pixels", bytesPerRow, width)
	}
	if uint64(len(data)) < need {
		return nil, fmt.Errorf("readback has %d bytes, need %d", len(data), need)
	}
	img := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	rowBytes := int(width) * 4
	for y := 0; y < int(height); y++ {
		src := data[y*int(bytesPerRow) : y*int(bytesPerRow)+rowBytes]
		copy(img.Pix[y*img.Stride:], src)
	}
	return img, nil
}

// ReadTexture copies an RGBA8 texture (created with CopySrc usage) back to
// host memory. It blocks until the copy is mapped, so it must run before
// the next frame writes to tex.
func ReadTexture(device *wgpu.Device, tex *wgpu.Texture, width, height uint32) (*image.RGBA, error) {
	bytesPerRow := AlignedBytesPerRow(width)
	size := uint64(bytesPerRow) * uint64(height)

	staging, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "CaptureReadback",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create readback buffer: %w", err)
	}
	defer staging.Release()

	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("create readback encoder: %w", err)
	}
	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
		},
		&wgpu.ImageCopyBuffer{
			Buffer: staging,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  bytesPerRow,
				RowsPerImage: height,
			},
		},
		&wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("finish readback encoder: %w", err)
	}
	device.GetQueue().Submit(cmd)

	var status wgpu.BufferMapAsyncStatus
	called := false
	err = staging.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
		called = true
	})
	if err != nil {
		return nil, fmt.Errorf("map readback buffer: %w", err)
	}
	device.Poll(true, nil)
	if !called {
		return nil, errors.New("map readback buffer: callback did not run")
	}
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("map readback buffer: status %s", status.String())
	}
	defer staging.Unmap()

	data := staging.GetMappedRange(0, uint(size))
	return UnpackRGBA(data, width, height, bytesPerRow)
}
