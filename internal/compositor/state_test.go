package compositor

import (
	"testing"

	"github.com/novawl/compositor/internal/config"
	_ "github.com/novawl/compositor/internal/render/compat"
	"github.com/stretchr/testify/require"
)

func TestNewWiresAllSubsystems(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	s, err := New(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, s.Tree)
	require.NotNil(t, s.Registry)
	require.NotNil(t, s.Outputs)
	require.Contains(t, s.Seats, cfg.SeatName)
	require.Contains(t, s.Devices, cfg.SeatName)
	require.NotNil(t, s.Render)
}

func TestSubmitRenderJobDropsWhenQueueFull(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	s, err := New(cfg, nil)
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		s.SubmitRenderJob(RenderJob{Output: "o"})
	}
	// the 9th must be dropped silently rather than block.
	s.SubmitRenderJob(RenderJob{Output: "overflow"})
	require.Len(t, s.renderJobs, 8)
}

func TestReportRenderCompletionDeliversToChannel(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	s, err := New(cfg, nil)
	require.NoError(t, err)

	s.ReportRenderCompletion(RenderCompletion{Output: "HEADLESS-1"})
	got := <-s.RenderCompletions()
	require.Equal(t, "HEADLESS-1", got.Output)
}
