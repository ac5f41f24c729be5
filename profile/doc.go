// Package profile wraps [github.com/pkg/profile] so that render and parse
// workloads can be profiled from the command line.
//
// Profiling is compiled in only with the "pprof" build tag. Without it
// [Modes] is empty and [Profiler.Start] always returns a no-op [Stopper].
//
//	p := profile.Profiler{Mode: "cpu", Path: dir, Quiet: true}
//	defer p.Start().Stop()
//
// Profiles are written to Path as <mode>.pprof and can be inspected with
// "go tool pprof". Builds with the tag also register the [net/http/pprof]
// handlers on the default mux.
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
