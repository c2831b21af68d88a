package gpu

// Buffer is one GPU allocation holding a packed record array.
type Buffer interface {
	// Len is the number of record bytes written, which may be smaller
	// than the underlying allocation.
	Len() int
	Release()
}

// Backend allocates GPU-visible memory and attaches it to binding slots.
// CreateBuffer always returns a fresh allocation; zero-length data is
// valid. Bind with a nil buffer detaches the slot.
type Backend interface {
	CreateBuffer(label string, data []byte) (Buffer, error)
	Bind(slot Slot, buf Buffer) error
}
