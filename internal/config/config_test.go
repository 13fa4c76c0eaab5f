package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "wayland-0", cfg.SocketName)
	require.Equal(t, PointerAccelAdaptive, cfg.PointerAccelProfile)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsOutOfRangeAccel(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.PointerAccelSpeed = 2
	require.Error(t, cfg.Validate())
}
