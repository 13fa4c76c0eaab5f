package buffer

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SHMPool wraps a client-provided fd mmap'd PROT_READ, per §4.4; growing
// the pool remaps it PROT_READ as well.
type SHMPool struct {
	fd   int
	data []byte
	size int32
}

// NewSHMPool maps fd read-only for size bytes. The fd's size is not
// checked with fstat: the server trusts the client to have ftruncate'd
// the file to at least size bytes (§4.4).
func NewSHMPool(fd int, size int32) (*SHMPool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("buffer: shm pool size must be positive, got %d", size)
	}
	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("buffer: mmap shm pool: %w", err)
	}
	return &SHMPool{fd: fd, data: data, size: size}, nil
}

// Size returns the pool's current mapped size.
func (p *SHMPool) Size() int32 { return p.size }

// Resize grows the pool in place, per wl_shm_pool.resize: it unmaps the
// old mapping and maps newSize bytes, again PROT_READ only.
func (p *SHMPool) Resize(newSize int32) error {
	if newSize < p.size {
		return fmt.Errorf("buffer: shm pool cannot shrink (have %d, want %d)", p.size, newSize)
	}
	if err := unix.Munmap(p.data); err != nil {
		return fmt.Errorf("buffer: munmap shm pool for resize: %w", err)
	}
	data, err := unix.Mmap(p.fd, 0, int(newSize), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("buffer: remap shm pool: %w", err)
	}
	p.data = data
	p.size = newSize
	return nil
}

// Close unmaps the pool. Destroying a wl_shm_pool resource only takes
// effect once every buffer created from it has also been destroyed;
// callers are expected to refcount at a higher layer and call Close once.
func (p *SHMPool) Close() error {
	if p.data == nil {
		return nil
	}
	err := unix.Munmap(p.data)
	p.data = nil
	return err
}
