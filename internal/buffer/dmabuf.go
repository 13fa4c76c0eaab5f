package buffer

import (
	"golang.org/x/sys/unix"

	"github.com/novawl/compositor/internal/errs"
)

// MaxDimension is the largest width/height accepted for a DMA-BUF import
// (§4.4: "positive dimensions ≤ 16384").
const MaxDimension = 16384

// expectedPlaneCount maps a fourcc to how many planes it requires. Only a
// small, representative set is enumerated; anything unlisted falls back
// to accepting 1-4 planes without a stronger check, deferring the
// authoritative rejection to the renderer's import (§4.4: "the import
// may fail").
var expectedPlaneCount = map[uint32]int{
	fourccARGB8888: 1,
	fourccXRGB8888: 1,
	fourccNV12:     2,
	fourccYUV420:   3,
}

const (
	fourccARGB8888 = 0x34325241
	fourccXRGB8888 = 0x34325258
	fourccNV12     = 0x3231564e
	fourccYUV420   = 0x32315559
)

// DMABUFParams accumulates plane entries for a zwp_linux_buffer_params_v1
// object before `create`/`create_immed` is called.
type DMABUFParams struct {
	Planes   []Plane
	Width    int32
	Height   int32
	Fourcc   uint32
	Modifier uint64
}

// NewDMABUF validates 1-4 planes against §4.4's rules and, on success,
// returns a Buffer with Origin == OriginDMABUF ready for the renderer to
// import. Validation failures return a *errs.Protocol with the exact
// zwp_linux_buffer_params_v1 error code (§6), matching scenario 3 of §8.
func NewDMABUF(p DMABUFParams) (*Buffer, error) {
	if p.Width <= 0 || p.Height <= 0 || p.Width > MaxDimension || p.Height > MaxDimension {
		return nil, dmabufErr(invalidDimsCode)
	}
	if len(p.Planes) < 1 || len(p.Planes) > 4 {
		return nil, dmabufErr(1)
	}
	if want, ok := expectedPlaneCount[p.Fourcc]; ok && want != len(p.Planes) {
		return nil, dmabufErr(1)
	}
	for i, pl := range p.Planes {
		var st unix.Stat_t
		if err := unix.Fstat(pl.FD, &st); err != nil {
			return nil, &errs.Protocol{
				Interface: "zwp_linux_buffer_params_v1",
				Code:      uint32(planeIdxCode),
				Message:   "unreachable plane fd",
			}
		}
		need := int64(pl.Offset) + int64(pl.Stride)*int64(p.Height-1) + int64(p.Width)*4
		if need > st.Size {
			return nil, &errs.Protocol{
				Interface: "zwp_linux_buffer_params_v1",
				Code:      uint32(outOfBoundsCode),
				Message:   "plane extends past fd size",
			}
		}
		_ = i
	}

	return &Buffer{
		Origin:   OriginDMABUF,
		Planes:   p.Planes,
		Fourcc:   p.Fourcc,
		Modifier: p.Modifier,
		Width:    p.Width,
		Height:   p.Height,
	}, nil
}

// These mirror proto.LinuxDMABufErrorCode as plain ints for dmabufErr's
// message table; the numeric values are the ones specified in §6.
const (
	planeIdxCode      = 0
	planeSetCode      = 1
	incompleteCode    = 2
	invalidFormatCode = 3
	invalidDimsCode   = 4
	outOfBoundsCode   = 5
)

func dmabufErr(code int) error {
	msg := map[int]string{
		planeIdxCode:      "invalid plane index",
		planeSetCode:      "inconsistent plane set for format",
		incompleteCode:    "incomplete plane set",
		invalidFormatCode: "unsupported format/modifier combination",
		invalidDimsCode:   "invalid dimensions",
		outOfBoundsCode:   "plane access out of bounds",
	}[code]
	return &errs.Protocol{Interface: "zwp_linux_buffer_params_v1", Code: uint32(code), Message: msg}
}
