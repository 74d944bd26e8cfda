package influx

import (
	"runtime"
	"time"
)

// GoRuntimePoints returns points describing the state of the Go runtime of
// the current process.
func GoRuntimePoints(now time.Time) Points {
	return Points{
		goProbeGoroutinesPoint(now),
		goProbeMemoryPoint(now),
	}
}

func goProbeGoroutinesPoint(now time.Time) *Point {
	return NewPoint("go_goroutines").
		WithField("count", IntegerField(int64(runtime.NumGoroutine()))).
		WithTime(now)
}

func goProbeMemoryPoint(now time.Time) *Point {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	fields := Fields{
		"heap_alloc":    IntegerField(int64(stats.HeapAlloc)),
		"heap_sys":      IntegerField(int64(stats.HeapSys)),
		"heap_idle":     IntegerField(int64(stats.HeapIdle)),
		"heap_in_use":   IntegerField(int64(stats.HeapInuse)),
		"heap_released": IntegerField(int64(stats.HeapReleased)),

		"stack_in_use": IntegerField(int64(stats.StackInuse)),
		"stack_sys":    IntegerField(int64(stats.StackSys)),

		"nb_gcs":               IntegerField(int64(stats.NumGC)),
		"gc_cpu_time_fraction": FloatField(stats.GCCPUFraction),
	}

	return NewPointWithTimestamp("go_memory", Tags{}, fields, now.UnixNano())
}
