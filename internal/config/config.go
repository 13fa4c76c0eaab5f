// Package config loads the compositor's immutable startup configuration,
// per §6. It is a boot-time input: CLI/env parsing, not a runtime concern.
package config

import "github.com/kelseyhightower/envconfig"

// PointerAccelProfile selects the pointer acceleration curve.
type PointerAccelProfile string

const (
	PointerAccelFlat     PointerAccelProfile = "flat"
	PointerAccelAdaptive PointerAccelProfile = "adaptive"
)

// OutputPlacement is one entry of the configured output_layout.
type OutputPlacement struct {
	Name      string
	X, Y      int32
	Scale     float64
	Transform string
}

// Compositor is the immutable CompositorConfig described in §6. It is
// loaded once at startup and never mutated afterward; handlers read it
// through a plain value receiver.
type Compositor struct {
	SocketName          string              `envconfig:"NOVAWL_SOCKET_NAME" default:"wayland-0"`
	SeatName            string              `envconfig:"NOVAWL_SEAT_NAME" default:"seat0"`
	KeyboardLayout      string              `envconfig:"NOVAWL_KEYBOARD_LAYOUT" default:"us"`
	KeyboardVariant     string              `envconfig:"NOVAWL_KEYBOARD_VARIANT"`
	RepeatRateHz        uint32              `envconfig:"NOVAWL_REPEAT_RATE_HZ" default:"25"`
	RepeatDelayMs       uint32              `envconfig:"NOVAWL_REPEAT_DELAY_MS" default:"600"`
	PointerAccelProfile PointerAccelProfile `envconfig:"NOVAWL_POINTER_ACCEL_PROFILE" default:"adaptive"`
	PointerAccelSpeed   float64             `envconfig:"NOVAWL_POINTER_ACCEL_SPEED" default:"0"`
	DefaultCursorTheme  string              `envconfig:"NOVAWL_CURSOR_THEME" default:"default"`
	DefaultCursorSize   uint32              `envconfig:"NOVAWL_CURSOR_SIZE" default:"24"`
	XWaylandEnabled     bool                `envconfig:"NOVAWL_XWAYLAND_ENABLED" default:"false"`
	ExplicitSync        bool                `envconfig:"NOVAWL_EXPLICIT_SYNC" default:"true"`
	TearingAllowed      bool                `envconfig:"NOVAWL_TEARING_ALLOWED" default:"false"`

	// OutputLayout is not populated by envconfig (it has no natural scalar
	// env representation) and this package has no file loader; callers
	// set it directly after Load returns.
	OutputLayout []OutputPlacement `ignored:"true"`
}

// Load reads process environment variables into a Compositor config,
// applying the defaults above for anything unset.
func Load() (Compositor, error) {
	var cfg Compositor
	if err := envconfig.Process("", &cfg); err != nil {
		return Compositor{}, err
	}
	return cfg, nil
}

// Validate reports a non-nil error if required invariants on a loaded
// config are violated (pointer accel speed out of range, etc).
func (c Compositor) Validate() error {
	if c.PointerAccelSpeed < -1 || c.PointerAccelSpeed > 1 {
		return errRange("pointer_accel_speed", "must be in [-1, 1]")
	}
	if c.PointerAccelProfile != PointerAccelFlat && c.PointerAccelProfile != PointerAccelAdaptive {
		return errRange("pointer_accel_profile", "must be flat or adaptive")
	}
	return nil
}

type rangeError struct {
	field, reason string
}

func (e *rangeError) Error() string { return e.field + ": " + e.reason }

func errRange(field, reason string) error { return &rangeError{field, reason} }
