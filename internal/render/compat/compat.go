// Package compat implements render.Backend as a software compositor over
// image.RGBA, the fixed-pipeline fallback selected when no accelerated
// backend is available (§5, §8 "degraded scope" on backend errors).
package compat

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/novawl/compositor/internal/buffer"
	"github.com/novawl/compositor/internal/render"
)

func init() {
	render.RegisterBackend("compat", func() (render.Backend, error) {
		return New(), nil
	})
}

// Backend composites entirely in software. It is always constructible,
// making it the registry's last-resort fallback.
type Backend struct {
	textures map[render.TextureHandle]*image.RGBA
	next     render.TextureHandle

	frame   *image.RGBA
	scissor image.Rectangle
}

// New constructs a software compat backend.
func New() *Backend {
	return &Backend{textures: make(map[render.TextureHandle]*image.RGBA)}
}

func (b *Backend) Name() string { return "compat" }

func (b *Backend) ImportSHM(buf *buffer.Buffer) (render.TextureHandle, error) {
	px := buf.Pixels()
	if px == nil {
		return 0, errors.New("compat: buffer has no SHM pixel data")
	}
	img := image.NewRGBA(image.Rect(0, 0, int(buf.Width), int(buf.Height)))
	for y := int32(0); y < buf.Height; y++ {
		srcRow := px[y*buf.Stride : y*buf.Stride+buf.Width*4]
		dstRow := img.Pix[y*int32(img.Stride) : y*int32(img.Stride)+buf.Width*4]
		for x := int32(0); x < buf.Width; x++ {
			// wl_shm ARGB8888/XRGB8888 is little-endian BGRA in memory;
			// image.RGBA wants R,G,B,A order.
			o := x * 4
			bgra := binary.LittleEndian.Uint32(srcRow[o : o+4])
			a := byte(bgra >> 24)
			r := byte(bgra >> 16)
			g := byte(bgra >> 8)
			bb := byte(bgra)
			if buf.Format == buffer.FormatXRGB8888 {
				a = 0xff
			}
			dstRow[o] = r
			dstRow[o+1] = g
			dstRow[o+2] = bb
			dstRow[o+3] = a
		}
	}
	h := b.alloc(img)
	return h, nil
}

func (b *Backend) ImportDMABUF(buf *buffer.Buffer) (render.TextureHandle, error) {
	// The software backend has no zero-copy import path; callers needing
	// DMA-BUF acceleration should prefer the explicit backend. Importing
	// here would require mapping planes via mmap, which compat never does
	// since it only ever serves as the degraded fallback.
	return 0, errors.New("compat: DMA-BUF import unsupported, use the explicit backend")
}

func (b *Backend) DestroyTexture(h render.TextureHandle) {
	delete(b.textures, h)
}

func (b *Backend) BeginFrame(width, height int, scissor image.Rectangle) error {
	b.frame = image.NewRGBA(image.Rect(0, 0, width, height))
	if scissor.Empty() {
		scissor = b.frame.Bounds()
	}
	b.scissor = scissor
	return nil
}

func (b *Backend) DrawTexturedQuad(h render.TextureHandle, q render.Quad) error {
	tex, ok := b.textures[h]
	if !ok {
		return errors.New("compat: unknown texture handle")
	}
	dst := image.Rect(int(q.DstX), int(q.DstY), int(q.DstX+q.DstW), int(q.DstY+q.DstH)).Intersect(b.scissor)
	if dst.Empty() {
		return nil
	}
	xdraw.CatmullRom.Scale(b.frame, dst, tex, tex.Bounds(), xdraw.Over, nil)
	return nil
}

func (b *Backend) DrawSolidQuad(q render.Quad, r, g, bb, a uint8) error {
	dst := image.Rect(int(q.DstX), int(q.DstY), int(q.DstX+q.DstW), int(q.DstY+q.DstH)).Intersect(b.scissor)
	if dst.Empty() {
		return nil
	}
	col := &image.Uniform{C: color.NRGBA{R: r, G: g, B: bb, A: a}}
	draw.Draw(b.frame, dst, col, image.Point{}, draw.Over)
	return nil
}

func (b *Backend) EndFrame() (*image.RGBA, error) {
	if b.frame == nil {
		return nil, errors.New("compat: EndFrame without BeginFrame")
	}
	f := b.frame
	b.frame = nil
	return f, nil
}

func (b *Backend) ZeroCopyCapable() bool { return false }

func (b *Backend) alloc(img *image.RGBA) render.TextureHandle {
	b.next++
	b.textures[b.next] = img
	return b.next
}
