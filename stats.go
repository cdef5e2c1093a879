package hmemory

import "fmt"
import "sort"
import "strings"
import "sync/atomic"

import "github.com/bnclabs/hmemory/lib"
import gohumanize "github.com/dustin/go-humanize"

// Stats return a snapshot of allocation counters, raw allocator
// memory and process memory.
//
//	current, peak, total - payload bytes.
//	count - number of live allocations.
//	nallocs, nfrees, nreallocs - operations that succeeded.
//	sizes - histogram of requested sizes.
func (m *Memory) Stats() map[string]interface{} {
	stats := m.registry.stats()
	memheap, overhead := m.raw.Memory()
	stats["raw.allocator"] = m.raw.Name()
	stats["raw.allocated"] = m.raw.Allocated()
	stats["raw.heap"] = memheap
	stats["raw.overhead"] = overhead
	stats["reports"] = m.reporter.stats()
	stats["escalations"] = atomic.LoadInt64(&m.nescalations)
	stats["degraded"] = m.degraded
	lib.Settings(stats).Mixin(lib.Settings(m.policy.Stats()).AddPrefix("policy."))
	if rss, size, ok := getprocmem(); ok {
		stats["proc.rss"] = int64(rss)
		stats["proc.size"] = int64(size)
	}
	total, used, free := getsysmem()
	stats["sys.total"] = int64(total)
	stats["sys.used"] = int64(used)
	stats["sys.free"] = int64(free)
	return stats
}

// Log statistics to the log package, if enabled via LogComponents.
func (m *Memory) Log(humanize bool) {
	stats := m.Stats()
	dohumanize := func(val interface{}) interface{} {
		if humanize {
			return gohumanize.Bytes(uint64(val.(int64)))
		}
		return val.(int64)
	}

	current, peak := dohumanize(stats["current"]), dohumanize(stats["peak"])
	total := dohumanize(stats["total"])
	fmsg := "%v payload current %v peak %v total %v in %v items\n"
	infof(fmsg, m.logprefix, current, peak, total, stats["count"])

	memheap, overhead := dohumanize(stats["raw.heap"]), dohumanize(stats["raw.overhead"])
	fmsg = "%v %v allocator heap %v overhead %v\n"
	infof(fmsg, m.logprefix, stats["raw.allocator"], memheap, overhead)

	if utilizer, ok := m.raw.(interface {
		Utilization() ([]int64, []float64)
	}); ok {
		sizes, zs := utilizer.Utilization()
		outs := []string{}
		for i, size := range sizes {
			outs = append(outs, fmt.Sprintf("  %6v blocks utilz: %2.2f%%", size, zs[i]))
		}
		if len(outs) > 0 {
			infof("%v pool utilization:\n%v\n", m.logprefix, strings.Join(outs, "\n"))
		}
	}

	sizes := stats["sizes"].(map[string]interface{})
	infof("%v sizes %v\n", m.logprefix, lib.Prettystats(sizes, false))

	reports := stats["reports"].(map[string]interface{})
	keys := []string{}
	for key := range reports {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		warnf("%v %v reports: %v\n", m.logprefix, key, reports[key])
	}
}

// statslines format counters as a statistics report.
func (m *Memory) statslines(current, peak, total, count int64) []string {
	fmsg := "    %-7s: %d bytes (%s)"
	lines := []string{
		"memory information:",
		fmt.Sprintf(fmsg, "current", current, gohumanize.Bytes(uint64(current))),
		fmt.Sprintf(fmsg, "peak", peak, gohumanize.Bytes(uint64(peak))),
		fmt.Sprintf(fmsg, "total", total, gohumanize.Bytes(uint64(total))),
		fmt.Sprintf("    count  : %d items", count),
	}
	if rss, size, ok := getprocmem(); ok {
		fmsg := "    rss    : %s (size %s)"
		lines = append(lines, fmt.Sprintf(fmsg, gohumanize.Bytes(rss), gohumanize.Bytes(size)))
	}
	return lines
}
