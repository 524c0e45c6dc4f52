package utils

import (
	"github.com/pkg/errors"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"
)

// StartProfiler starts the Datadog continuous profiler for service in
// environment env.
func StartProfiler(service string, env string) error {
	if err := profiler.Start(
		profiler.WithService(service),
		profiler.WithEnv(env),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
			// The profiles below are disabled by
			// default to keep overhead low, but
			// can be enabled as needed.
			// profiler.BlockProfile,
			// profiler.MutexProfile,
			// profiler.GoroutineProfile,
		),
	); err != nil {
		return errors.Wrap(err, "start profiler")
	}
	return nil
}

// Stop profiler, OK to be closed multiple times
func CloseProfiler() {
	profiler.Stop()
}
