package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// allocSize is the storage buffer size for n bytes of records. The derived
// bind group layout requires every array binding to hold at least one
// element, so the floor is the largest record stride in SceneSlots; a single
// floor lets the placeholder stand in for any slot.
func allocSize(n int) uint64 {
	size := uint64(n)
	if size%16 != 0 {
		size += 16 - size%16
	}
	if floor := uint64(maxRecordSize()); size < floor {
		size = floor
	}
	return size
}

func maxRecordSize() int {
	size := 16
	for _, slot := range SceneSlots {
		if n := slot.RecordLayout().Size; n > size {
			size = n
		}
	}
	return size
}

type wgpuBuffer struct {
	buf *wgpu.Buffer
	n   int
}

func (b *wgpuBuffer) Len() int { return b.n }

func (b *wgpuBuffer) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}

// WGPUBackend implements Backend on a wgpu device. Slot changes and
// parameter writes are collected and applied by Sync, once per frame,
// before the trace pass is encoded.
type WGPUBackend struct {
	Device *wgpu.Device
	Params *ParamBlock

	ParamsBuf *wgpu.Buffer
	BindGroup *wgpu.BindGroup

	layout      *wgpu.BindGroupLayout
	slots       [slotCount]*wgpuBuffer
	placeholder *wgpu.Buffer
	bindDirty   bool
}

func NewWGPUBackend(device *wgpu.Device, params *ParamBlock) (*WGPUBackend, error) {
	b := &WGPUBackend{
		Device:    device,
		Params:    params,
		bindDirty: true,
	}

	var err error
	b.ParamsBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "SceneParamsUB",
		Size:  uint64(ParamsLayout.Size),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create params buffer: %w", err)
	}

	b.placeholder, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "EmptyRecordsBuf",
		Size:  allocSize(0),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		b.ParamsBuf.Release()
		return nil, fmt.Errorf("create placeholder buffer: %w", err)
	}
	return b, nil
}

func (b *WGPUBackend) CreateBuffer(label string, data []byte) (Buffer, error) {
	buf, err := b.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             allocSize(len(data)),
		Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		b.Device.GetQueue().WriteBuffer(buf, 0, data)
	}
	return &wgpuBuffer{buf: buf, n: len(data)}, nil
}

func (b *WGPUBackend) Bind(slot Slot, buf Buffer) error {
	if slot == SlotParams || uint32(slot) >= slotCount {
		return fmt.Errorf("slot %s is not a record slot", slot)
	}
	if buf == nil {
		b.slots[slot] = nil
		b.bindDirty = true
		return nil
	}
	wb, ok := buf.(*wgpuBuffer)
	if !ok || wb.buf == nil {
		return errors.New("buffer was not created by this backend")
	}
	b.slots[slot] = wb
	b.bindDirty = true
	return nil
}

// SetLayout sets the bind group 0 layout of the trace pipeline.
func (b *WGPUBackend) SetLayout(layout *wgpu.BindGroupLayout) {
	b.layout = layout
	b.bindDirty = true
}

// Sync rebuilds bind group 0 after slot changes and then uploads dirty
// parameters. It reports whether the bind group was recreated.
func (b *WGPUBackend) Sync() (bool, error) {
	return syncFrame(b.Params, b.bindDirty && b.layout != nil, b.rebuildBindGroup, func(data []byte) {
		b.Device.GetQueue().WriteBuffer(b.ParamsBuf, 0, data)
	})
}

// syncFrame orders one frame's device updates. Counts in params describe
// the buffers of the new bind group, so they are only written once that
// group exists; a failed rebuild leaves params dirty for the next frame.
func syncFrame(params *ParamBlock, rebuild bool, rebuildFn func() error, write func([]byte)) (bool, error) {
	if rebuild {
		if err := rebuildFn(); err != nil {
			return false, err
		}
	}
	if params != nil && params.Dirty() {
		write(params.Bytes())
		params.ClearDirty()
	}
	return rebuild, nil
}

func (b *WGPUBackend) rebuildBindGroup() error {
	entries := []wgpu.BindGroupEntry{
		{Binding: uint32(SlotParams), Buffer: b.ParamsBuf, Size: wgpu.WholeSize},
	}
	for _, slot := range SceneSlots {
		buf := b.placeholder
		if s := b.slots[slot]; s != nil {
			buf = s.buf
		}
		entries = append(entries, wgpu.BindGroupEntry{Binding: uint32(slot), Buffer: buf, Size: wgpu.WholeSize})
	}

	bg, err := b.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "SceneBindGroup",
		Layout:  b.layout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create scene bind group: %w", err)
	}
	if b.BindGroup != nil {
		b.BindGroup.Release()
	}
	b.BindGroup = bg
	b.bindDirty = false
	return nil
}

func (b *WGPUBackend) Release() {
	if b.BindGroup != nil {
		b.BindGroup.Release()
		b.BindGroup = nil
	}
	if b.placeholder != nil {
		b.placeholder.Release()
		b.placeholder = nil
	}
	if b.ParamsBuf != nil {
		b.ParamsBuf.Release()
		b.ParamsBuf = nil
	}
}
