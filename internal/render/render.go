// Package render defines the narrow contract a rendering backend must
// satisfy and a name-keyed registry for selecting among them, following
// the backend-registry pattern used by GPU abstraction layers.
package render

import (
	"errors"
	"image"

	"github.com/novawl/compositor/internal/buffer"
)

// ErrNoBackendRegistered is returned when no backend has registered
// itself via RegisterBackend.
var ErrNoBackendRegistered = errors.New("render: no backend registered")

// TextureHandle is an opaque reference to an imported buffer's
// GPU-resident (or software-resident) representation.
type TextureHandle uint64

// Quad places a textured or solid-colored rectangle into the current
// frame, in output-local pixel coordinates.
type Quad struct {
	DstX, DstY, DstW, DstH float64
	Opacity                float64
}

// Backend is the contract every rendering backend implements. It is
// deliberately narrow: import buffers into textures, composite quads
// into a frame, and report capability — everything else (scene
// traversal, damage, transforms) lives above this layer.
type Backend interface {
	Name() string

	// ImportSHM uploads or wraps an SHM-backed buffer as a texture.
	ImportSHM(b *buffer.Buffer) (TextureHandle, error)
	// ImportDMABUF imports a DMA-BUF backed buffer as a texture, zero-copy
	// where the backend supports it.
	ImportDMABUF(b *buffer.Buffer) (TextureHandle, error)
	// DestroyTexture releases a previously imported texture.
	DestroyTexture(TextureHandle)

	// BeginFrame starts a composition pass targeting an output of the
	// given pixel dimensions, clipped to scissor (empty scissor means the
	// whole frame).
	BeginFrame(width, height int, scissor image.Rectangle) error
	// DrawTexturedQuad composites tex into the current frame at q.
	DrawTexturedQuad(tex TextureHandle, q Quad) error
	// DrawSolidQuad fills q with a flat color, used for background and
	// debug-damage overlays.
	DrawSolidQuad(q Quad, r, g, b, a uint8) error
	// EndFrame finalizes the pass and returns the composited image. Zero
	//-copy backends may return a view rather than a copy; callers must
	// not retain it across the next BeginFrame.
	EndFrame() (*image.RGBA, error)

	// ZeroCopyCapable reports whether this backend can present DMA-BUFs
	// without a copy, feeding the presentation-feedback zero_copy flag.
	ZeroCopyCapable() bool
}

// BackendFactory constructs a new Backend instance.
type BackendFactory func() (Backend, error)
