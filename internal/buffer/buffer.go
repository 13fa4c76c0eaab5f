// Package buffer implements the buffer subsystem: SHM pools and
// DMA-BUF import with explicit fences, per §4.4.
package buffer

import "github.com/novawl/compositor/internal/errs"

// Format is a pixel format fourcc code. ARGB8888 and XRGB8888 must be
// supported (§4.4); others are advertised via wl_shm.format events.
type Format uint32

const (
	FormatARGB8888 Format = 0x34325241 // 'ARGB' little endian
	FormatXRGB8888 Format = 0x34325258 // 'XRGB' little endian
)

// Origin discriminates a buffer's backing storage, per §3.
type Origin int

const (
	OriginSHM Origin = iota
	OriginDMABUF
	// OriginSinglePixel is the single_pixel_buffer origin: a solid color
	// resolved without ever touching a pool or plane fd, and contractually
	// exempt from the release event (§4.4).
	OriginSinglePixel
)

// Plane is one DMA-BUF plane descriptor.
type Plane struct {
	FD     int
	Offset int32
	Stride int32
}

// Buffer is a client-owned pixel source attached to at most one surface's
// pending or current slot at a time (§3). The server holds a strong
// reference for the span attach -> release; ownership transfer is modeled
// explicitly rather than with reference counts (§5 Resource policy).
type Buffer struct {
	Origin Origin

	// SHM fields.
	Pool   *SHMPool
	Offset int32
	Width  int32
	Height int32
	Stride int32
	Format Format

	// DMA-BUF fields.
	Planes   []Plane
	Fourcc   uint32
	Modifier uint64

	// AcquireFence is the fence fd supplied with attach under
	// linux_explicit_synchronization (§4.4); -1 if absent.
	AcquireFence int

	// SolidColor backs OriginSinglePixel buffers: premultiplied RGBA in
	// [0, 0xffffffff] per channel, as the single_pixel_buffer protocol
	// specifies.
	SolidColor [4]uint32

	// Inert marks a buffer whose DMA-BUF import failed; it must never be
	// sampled and any further attach of it is a no-op (§4.4).
	Inert bool

	// onRelease is invoked by the surface/scene layer exactly once, when
	// the server no longer reads this buffer (§4.4 Release contract). It
	// is nil for single-pixel and server-cached buffers, which may skip
	// the release event by contract.
	onRelease func()
	released  bool
}

// NewSHM constructs and validates an SHM-backed buffer, per §4.4: the pool
// must contain offset + stride*(height-1) + width*bpp bytes.
func NewSHM(pool *SHMPool, offset, width, height, stride int32, format Format) (*Buffer, error) {
	bpp := int32(4)
	need := offset + stride*max32(height-1, 0) + width*bpp
	if width <= 0 || height <= 0 || stride < width*bpp {
		return nil, &errs.Protocol{Interface: "wl_shm_pool", Code: 0, Message: "invalid buffer dimensions"}
	}
	if need > pool.Size() {
		return nil, &errs.Protocol{Interface: "wl_shm_pool", Code: 0, Message: "buffer extends past pool size"}
	}
	return &Buffer{
		Origin: OriginSHM,
		Pool:   pool,
		Offset: offset,
		Width:  width,
		Height: height,
		Stride: stride,
		Format: format,
	}, nil
}

// Pixels returns the buffer's backing bytes for the SHM path, sliced to
// exactly its declared extent within the pool's mapping.
func (b *Buffer) Pixels() []byte {
	if b.Origin != OriginSHM || b.Pool == nil {
		return nil
	}
	size := b.Stride * b.Height
	return b.Pool.data[b.Offset : b.Offset+size]
}

// SetReleaseCallback installs the hook invoked on Release. Surfaces call
// this when a buffer newly occupies the current slot (§4.3 step 3).
func (b *Buffer) SetReleaseCallback(fn func()) {
	b.onRelease = fn
	b.released = false
}

// Release fires the release hook exactly once, per §4.4's contract that
// wl_buffer.release is emitted exactly when the server no longer reads
// the buffer. Single-pixel and server-cached buffers may have no hook at
// all, which is the "skip the release event by contract" case.
func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	if b.onRelease != nil {
		b.onRelease()
	}
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
