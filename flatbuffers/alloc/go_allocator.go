// Package alloc supplies the buffer allocator collaborator the writer hands
// its finished output through. The writer never allocates directly; it asks
// an Allocator for exactly the number of bytes pass 1 computed and copies
// into that buffer during pass 2.
package alloc

import (
	"reflect"
	"unsafe"
)

// Allocator is implemented by anything that can hand the writer a
// byte buffer of an exact size. The writer never calls Free itself — the
// returned buffer is handed to the caller as the finished message.
type Allocator interface {
	Allocate(size int) []byte
	Reallocate(size int, b []byte) []byte
	Free(b []byte)
}

const allocAlignment = 64

// GoAllocator allocates plain Go byte slices, shifted so that the returned
// slice's backing address is a multiple of allocAlignment. This keeps the
// 8-byte-aligned envelope tail and scalar field access naturally aligned
// within the buffer's base without needing to over-allocate per call site.
type GoAllocator struct{}

func NewGoAllocator() *GoAllocator { return &GoAllocator{} }

func (a *GoAllocator) Allocate(size int) []byte {
	buf := make([]byte, size+allocAlignment)
	addr := addressOf(buf)
	next := roundUpToMultipleOf(addr, allocAlignment)
	if addr != next {
		shift := int(next - addr)
		return buf[shift : size+shift : size+shift]
	}
	return buf[:size:size]
}

func (a *GoAllocator) Reallocate(size int, b []byte) []byte {
	if size == len(b) {
		return b
	}
	newBuf := a.Allocate(size)
	copy(newBuf, b)
	return newBuf
}

func (a *GoAllocator) Free(b []byte) {}

func addressOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	hdr := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	return hdr.Data
}

func roundUpToMultipleOf(v uintptr, n uintptr) uintptr {
	if v%n == 0 {
		return v
	}
	return (v/n + 1) * n
}

var _ Allocator = (*GoAllocator)(nil)
