package explicit

import (
	"image"
	"os"
	"testing"

	"github.com/novawl/compositor/internal/buffer"
	"github.com/novawl/compositor/internal/render"
	"github.com/stretchr/testify/require"
)

func tempPool(t *testing.T, size int32) *buffer.SHMPool {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "shm")
	require.NoError(t, err)
	require.NoError(t, f.Truncate(int64(size)))
	pool, err := buffer.NewSHMPool(int(f.Fd()), size)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close(); f.Close() })
	return pool
}

func TestNewProbesSuccessfully(t *testing.T) {
	b, err := New()
	require.NoError(t, err)
	require.Equal(t, "explicit", b.Name())
	require.True(t, b.ZeroCopyCapable())
}

func TestImportSHMAndComposite(t *testing.T) {
	pool := tempPool(t, 4*2*2)
	buf, err := buffer.NewSHM(pool, 0, 2, 2, 8, buffer.FormatARGB8888)
	require.NoError(t, err)

	b, err := New()
	require.NoError(t, err)
	tex, err := b.ImportSHM(buf)
	require.NoError(t, err)

	require.NoError(t, b.BeginFrame(4, 4, image.Rectangle{}))
	require.NoError(t, b.DrawTexturedQuad(tex, render.Quad{DstW: 4, DstH: 4}))
	img, err := b.EndFrame()
	require.NoError(t, err)
	require.Equal(t, 4, img.Bounds().Dy())

	b.DestroyTexture(tex)
}

func TestImportDMABUFRejectsInertBuffer(t *testing.T) {
	b, err := New()
	require.NoError(t, err)
	_, err = b.ImportDMABUF(&buffer.Buffer{Origin: buffer.OriginDMABUF, Inert: true})
	require.Error(t, err)
}

func TestDrawSolidQuadFillsScissor(t *testing.T) {
	b, err := New()
	require.NoError(t, err)
	require.NoError(t, b.BeginFrame(2, 2, image.Rectangle{}))
	require.NoError(t, b.DrawSolidQuad(render.Quad{DstW: 2, DstH: 2}, 10, 20, 30, 255))
	img, err := b.EndFrame()
	require.NoError(t, err)
	require.Equal(t, uint8(10), img.RGBAAt(0, 0).R)
}
