package gpu

import "fmt"

type FieldKind uint8

const (
	KindF32 FieldKind = iota
	KindI32
	KindU32
	KindVec4
	KindMat4
)

func (k FieldKind) Size() int {
	switch k {
	case KindVec4:
		return 16
	case KindMat4:
		return 64
	}
	return 4
}

// Align is the WGSL alignment of the kind in a storage or uniform buffer.
func (k FieldKind) Align() int {
	switch k {
	case KindVec4, KindMat4:
		return 16
	}
	return 4
}

func (k FieldKind) String() string {
	switch k {
	case KindF32:
		return "f32"
	case KindI32:
		return "i32"
	case KindU32:
		return "u32"
	case KindVec4:
		return "vec4<f32>"
	case KindMat4:
		return "mat4x4<f32>"
	}
	return fmt.Sprintf("FieldKind(%d)", uint8(k))
}

type Field struct {
	Name   string
	Offset int
	Kind   FieldKind
}

// Layout is the byte layout of one GPU struct. Offsets are fixed per type
// and never depend on the data.
type Layout struct {
	Name   string
	Size   int
	Fields []Field
}

func (l Layout) Field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks that fields are ordered, aligned, non-overlapping, cover
// the struct exactly and that the size is a multiple of 16.
func (l Layout) Validate() error {
	if l.Size%16 != 0 {
		return fmt.Errorf("%s: size %d is not a multiple of 16", l.Name, l.Size)
	}
	next := 0
	for _, f := range l.Fields {
		if f.Offset%f.Kind.Align() != 0 {
			return fmt.Errorf("%s.%s: offset %d not aligned to %d", l.Name, f.Name, f.Offset, f.Kind.Align())
		}
		if f.Offset != next {
			return fmt.Errorf("%s.%s: offset %d, expected %d", l.Name, f.Name, f.Offset, next)
		}
		next = f.Offset + f.Kind.Size()
	}
	if next != l.Size {
		return fmt.Errorf("%s: fields end at %d, size is %d", l.Name, next, l.Size)
	}
	return nil
}
