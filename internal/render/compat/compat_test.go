package compat

import (
	"image"
	"os"
	"testing"

	"github.com/novawl/compositor/internal/buffer"
	"github.com/novawl/compositor/internal/render"
	"github.com/stretchr/testify/require"
)

func tempPool(t *testing.T, size int) *buffer.SHMPool {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "shm")
	require.NoError(t, err)
	require.NoError(t, f.Truncate(int64(size)))
	pool, err := buffer.NewSHMPool(int(f.Fd()), int32(size))
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close(); f.Close() })
	return pool
}

func TestImportSHMAndDrawSolidQuad(t *testing.T) {
	pool := tempPool(t, 4*2*2)
	buf, err := buffer.NewSHM(pool, 0, 2, 2, 8, buffer.FormatARGB8888)
	require.NoError(t, err)

	b := New()
	tex, err := b.ImportSHM(buf)
	require.NoError(t, err)
	require.NotZero(t, tex)

	require.NoError(t, b.BeginFrame(4, 4, image.Rectangle{}))
	require.NoError(t, b.DrawTexturedQuad(tex, render.Quad{DstX: 0, DstY: 0, DstW: 4, DstH: 4, Opacity: 1}))
	require.NoError(t, b.DrawSolidQuad(render.Quad{DstX: 0, DstY: 0, DstW: 1, DstH: 1}, 255, 0, 0, 255))
	img, err := b.EndFrame()
	require.NoError(t, err)
	require.Equal(t, 4, img.Bounds().Dx())
}

func TestDrawTexturedQuadUnknownHandleErrors(t *testing.T) {
	b := New()
	require.NoError(t, b.BeginFrame(4, 4, image.Rectangle{}))
	err := b.DrawTexturedQuad(999, render.Quad{DstW: 1, DstH: 1})
	require.Error(t, err)
}

func TestImportDMABUFUnsupported(t *testing.T) {
	b := New()
	_, err := b.ImportDMABUF(&buffer.Buffer{Origin: buffer.OriginDMABUF})
	require.Error(t, err)
}

func TestZeroCopyCapableFalse(t *testing.T) {
	require.False(t, New().ZeroCopyCapable())
}
