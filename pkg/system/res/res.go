//go:build linux

// Package res wraps the process resource plumbing the simulator needs:
// raising the open-file limit at startup (long reads hold one spill file
// open per busy channel, which exceeds default limits on large fleets)
// and reading CPU time / peak RSS for the exit summary.
package res

import (
	"log/slog"

	"golang.org/x/sys/unix"

	"github.com/ja7ad/slowion/pkg/types"
)

// RaiseFileLimit lifts the RLIMIT_NOFILE soft limit to the hard limit.
func RaiseFileLimit() error {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return err
	}
	slog.Debug("max open files", "cur", rl.Cur, "max", rl.Max)
	rl.Cur = rl.Max
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return err
	}
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return err
	}
	slog.Debug("max open files raised", "cur", rl.Cur, "max", rl.Max)
	return nil
}

// CPUTime returns the user+system CPU seconds consumed by the process.
func CPUTime() float64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	return tvSeconds(ru.Utime) + tvSeconds(ru.Stime)
}

// PeakRSS returns the process's maximum resident set size.
func PeakRSS() types.Bytes {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	// ru_maxrss is in kilobytes on Linux
	return types.Bytes(ru.Maxrss) * 1024
}

func tvSeconds(tv unix.Timeval) float64 {
	return float64(tv.Sec) + float64(tv.Usec)/1e6
}
