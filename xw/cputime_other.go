//go:build !unix

package xw

import "time"

var processStart = time.Now()

// CPUTime approximates CPU time with wall clock where rusage is not
// available.
func CPUTime() float64 {
	return time.Since(processStart).Seconds()
}
