package profile

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Profiler controls the lifecycle of one profiling session around a
// compile.
//
// Call [Profiler.Start] before the work and [Profiler.Stop] after; the
// snapshot profiles (heap, allocs) are written at Stop.
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	cpuFile *os.File
	Config
}

// Start configures the memory sampling rate and starts CPU profiling
// if enabled.
func (p *Profiler) Start() error {
	runtime.MemProfileRate = p.MemProfileRate

	if p.CPUProfile == "" {
		return nil
	}

	f, err := os.Create(p.CPUProfile)
	if err != nil {
		return fmt.Errorf("creating CPU profile: %w", err)
	}

	p.cpuFile = f

	err = pprof.StartCPUProfile(f)
	if err != nil {
		_ = p.cpuFile.Close()
		p.cpuFile = nil

		return fmt.Errorf("starting CPU profile: %w", err)
	}

	return nil
}

// Stop stops CPU profiling and writes the enabled snapshot profiles.
func (p *Profiler) Stop() error {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		err := p.cpuFile.Close()
		if err != nil {
			return fmt.Errorf("closing CPU profile: %w", err)
		}
	}

	snapshots := []struct {
		name string
		path string
	}{
		{"heap", p.HeapProfile},
		{"allocs", p.AllocsProfile},
	}

	for _, s := range snapshots {
		if s.path == "" {
			continue
		}

		err := p.writeProfile(s.name, s.path)
		if err != nil {
			return fmt.Errorf("write %s profile: %w", s.name, err)
		}
	}

	return nil
}

func (p *Profiler) writeProfile(name, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s profile: %w", name, err)
	}

	prof := pprof.Lookup(name)
	if prof == nil {
		_ = f.Close()

		return fmt.Errorf("unknown profile: %s", name)
	}

	err = prof.WriteTo(f, 0)
	if err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}
