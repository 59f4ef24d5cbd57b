package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.flagc.dev/flagc/profile"
)

func TestProfilerDisabled(t *testing.T) {
	t.Parallel()

	p := profile.NewConfig().NewProfiler()

	require.NoError(t, p.Start())
	require.NoError(t, p.Stop())
}

func TestProfilerWritesProfiles(t *testing.T) {
	dir := t.TempDir()

	cfg := profile.NewConfig()
	cfg.CPUProfile = filepath.Join(dir, "cpu.out")
	cfg.HeapProfile = filepath.Join(dir, "heap.out")
	cfg.AllocsProfile = filepath.Join(dir, "allocs.out")
	cfg.MemProfileRate = 1

	p := cfg.NewProfiler()

	require.NoError(t, p.Start())

	// Allocate a little so the profiles have samples.
	sink := make([][]byte, 0, 64)
	for range 64 {
		sink = append(sink, make([]byte, 1024))
	}

	_ = sink

	require.NoError(t, p.Stop())

	for _, path := range []string{cfg.CPUProfile, cfg.HeapProfile, cfg.AllocsProfile} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestConfigRegisterFlags(t *testing.T) {
	t.Parallel()

	cfg := profile.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	require.NoError(t, cfg.RegisterCompletions(cmd))

	require.NoError(t, cmd.Flags().Set("cpu-profile", "cpu.out"))
	assert.Equal(t, "cpu.out", cfg.CPUProfile)
	assert.Equal(t, 524288, cfg.MemProfileRate)
}
