package buffer

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func tempFile(t *testing.T, size int64) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "shm")
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))
	t.Cleanup(func() { f.Close() })
	return f
}

func TestSHMPoolRoundTrip(t *testing.T) {
	f := tempFile(t, 256*128*4)
	pool, err := NewSHMPool(int(f.Fd()), 256*128*4)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	buf, err := NewSHM(pool, 0, 256, 128, 256*4, FormatXRGB8888)
	require.NoError(t, err)
	require.Len(t, buf.Pixels(), 256*128*4)
}

func TestSHMRejectsOversizedBuffer(t *testing.T) {
	f := tempFile(t, 100)
	pool, err := NewSHMPool(int(f.Fd()), 100)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	_, err = NewSHM(pool, 0, 256, 128, 256*4, FormatXRGB8888)
	require.Error(t, err)
}

func TestDMABUFValidation(t *testing.T) {
	f := tempFile(t, 1920*1080*4)
	buf, err := NewDMABUF(DMABUFParams{
		Planes:   []Plane{{FD: int(f.Fd()), Offset: 0, Stride: 1920 * 4}},
		Width:    1920,
		Height:   1080,
		Fourcc:   fourccARGB8888,
		Modifier: 0,
	})
	require.NoError(t, err)
	require.Equal(t, OriginDMABUF, buf.Origin)
}

func TestDMABUFRejectsOversizedDimensions(t *testing.T) {
	f := tempFile(t, 64)
	_, err := NewDMABUF(DMABUFParams{
		Planes: []Plane{{FD: int(f.Fd())}},
		Width:  20000,
		Height: 10,
		Fourcc: fourccARGB8888,
	})
	require.Error(t, err)
}

func TestDMABUFRejectsWrongPlaneCount(t *testing.T) {
	f := tempFile(t, 1<<20)
	_, err := NewDMABUF(DMABUFParams{
		Planes: []Plane{{FD: int(f.Fd())}, {FD: int(f.Fd())}},
		Width:  64,
		Height: 64,
		Fourcc: fourccARGB8888, // expects exactly 1 plane
	})
	require.Error(t, err)
}

func TestReleaseFiresOnce(t *testing.T) {
	calls := 0
	b := &Buffer{}
	b.SetReleaseCallback(func() { calls++ })
	b.Release()
	b.Release()
	require.Equal(t, 1, calls)
}
