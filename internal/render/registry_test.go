package render

import (
	"errors"
	"image"
	"testing"

	"github.com/novawl/compositor/internal/buffer"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct{ name string }

func (f *fakeBackend) Name() string { return f.name }
func (f *fakeBackend) ImportSHM(*buffer.Buffer) (TextureHandle, error) {
	return 0, nil
}
func (f *fakeBackend) ImportDMABUF(*buffer.Buffer) (TextureHandle, error) {
	return 0, nil
}
func (f *fakeBackend) DestroyTexture(TextureHandle)               {}
func (f *fakeBackend) BeginFrame(int, int, image.Rectangle) error { return nil }
func (f *fakeBackend) DrawTexturedQuad(TextureHandle, Quad) error { return nil }
func (f *fakeBackend) DrawSolidQuad(Quad, uint8, uint8, uint8, uint8) error {
	return nil
}
func (f *fakeBackend) EndFrame() (*image.RGBA, error) {
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}
func (f *fakeBackend) ZeroCopyCapable() bool { return false }

var errUnavailable = errors.New("unavailable")

func TestSelectBestBackendPrefersPriorityOrder(t *testing.T) {
	saved := backendPriority
	defer func() { backendPriority = saved }()
	defer UnregisterBackend("a")
	defer UnregisterBackend("b")
	backendPriority = []string{"a", "b"}

	RegisterBackend("b", func() (Backend, error) { return &fakeBackend{name: "b"}, nil })
	RegisterBackend("a", func() (Backend, error) { return &fakeBackend{name: "a"}, nil })

	got, err := SelectBestBackend()
	require.NoError(t, err)
	require.Equal(t, "a", got.Name())
}

func TestSelectBestBackendSkipsFailingFactory(t *testing.T) {
	saved := backendPriority
	defer func() { backendPriority = saved }()
	defer UnregisterBackend("broken")
	defer UnregisterBackend("ok")
	backendPriority = []string{"broken", "ok"}

	RegisterBackend("broken", func() (Backend, error) { return nil, errUnavailable })
	RegisterBackend("ok", func() (Backend, error) { return &fakeBackend{name: "ok"}, nil })

	got, err := SelectBestBackend()
	require.NoError(t, err)
	require.Equal(t, "ok", got.Name())
}

func TestCreateBackendUnknownNameErrors(t *testing.T) {
	_, err := CreateBackend("does-not-exist")
	require.ErrorIs(t, err, ErrNoBackendRegistered)
}

func TestAvailableBackendsListsRegistered(t *testing.T) {
	defer UnregisterBackend("listed")
	RegisterBackend("listed", func() (Backend, error) { return &fakeBackend{name: "listed"}, nil })
	require.Contains(t, AvailableBackends(), "listed")
}
