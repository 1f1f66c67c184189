// Package metrics provides lightweight runtime measurements used by the
// details report and by calibration runs.
package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by the application
	HeapSys      uint64 // bytes obtained from the OS for the heap
	Sys          uint64 // total bytes obtained from the OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	HeapObjects  uint64 // number of allocated heap objects
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
	}
}

// Delta returns the difference between a later snapshot and this one.
// Counters that can only grow are subtracted; gauges are taken from the
// later snapshot.
func (s MemorySnapshot) Delta(later MemorySnapshot) MemorySnapshot {
	return MemorySnapshot{
		HeapAlloc:    later.HeapAlloc,
		HeapSys:      later.HeapSys,
		Sys:          later.Sys,
		NumGC:        later.NumGC - s.NumGC,
		PauseTotalNs: later.PauseTotalNs - s.PauseTotalNs,
		HeapObjects:  later.HeapObjects,
	}
}
