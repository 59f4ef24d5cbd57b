// Package profile adds opt-in pprof profiling to the flagc CLI.
//
// Compiling large catalogs is CPU- and allocation-bound, so the
// compile command exposes the standard profile outputs behind flags:
//
//	flagc compile --cpu-profile cpu.out --heap-profile heap.out ...
//
// A [Config] registers the flags; [Config.NewProfiler] creates the
// [Profiler] whose Start/Stop pair brackets the compile.
package profile
