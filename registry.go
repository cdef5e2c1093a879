package hmemory

import "fmt"
import "sort"
import "sync"
import "unsafe"

import "github.com/bnclabs/hmemory/lib"

// Site identify the call site of a tracked operation.
type Site struct {
	Function string
	File     string
	Line     int
}

func (site Site) String() string {
	return fmt.Sprintf("%v (%v:%v)", site.Function, lib.Shortfile(site.File), site.Line)
}

// Allocation is a read-only copy of a tracked allocation.
type Allocation struct {
	Address uintptr        // raw block, including guards
	Payload unsafe.Pointer // pointer handed out to application
	Size    int64          // payload size, excluding guards
	Label   string
	Site    Site
}

// record is owned by the registry from insert till remove.
type record struct {
	raw   unsafe.Pointer
	size  int64
	label string
	site  Site
}

func (rec *record) address() uintptr {
	return uintptr(rec.raw)
}

func (rec *record) verify() Corruption {
	return guardverify(rec.raw, rawsize(rec.size))
}

func (rec *record) allocation() Allocation {
	return Allocation{
		Address: rec.address(),
		Payload: payloadof(rec.raw),
		Size:    rec.size,
		Label:   rec.label,
		Site:    rec.site,
	}
}

// registry of live allocations keyed by raw address. A single mutex
// serializes every operation and protects the aggregate counters, so
// that counters change atomically with the map.
type registry struct {
	mu      sync.Mutex
	records map[uintptr]*record

	// aggregate counters
	current   int64 // sum of payload sizes of live records
	peak      int64 // maximum value of current ever observed
	total     int64 // cumulative payload bytes, never decremented
	nallocs   int64
	nfrees    int64
	nreallocs int64
	sizes     *lib.HistogramInt64
}

func newregistry() *registry {
	return &registry{
		records: make(map[uintptr]*record),
		sizes:   lib.NewhistogramInt64(),
	}
}

func (reg *registry) insert(rec *record) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.records[rec.address()]; ok {
		return ErrorDuplicateAddress
	}
	reg.records[rec.address()] = rec
	reg.nallocs++
	reg.sizes.Add(rec.size)
	reg.grow(rec.size, rec.size)
	return nil
}

func (reg *registry) lookup(address uintptr) (Allocation, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if rec, ok := reg.records[address]; ok {
		return rec.allocation(), true
	}
	return Allocation{}, false
}

// check lookup address and verify its guards, holding the lock.
func (reg *registry) check(address uintptr) (Allocation, Corruption, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rec, ok := reg.records[address]
	if !ok {
		return Allocation{}, 0, ErrorUnknownAddress
	}
	return rec.allocation(), rec.verify(), nil
}

func (reg *registry) remove(address uintptr) (*record, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rec, ok := reg.records[address]
	if !ok {
		return nil, ErrorUnknownAddress
	}
	delete(reg.records, address)
	reg.current -= rec.size
	reg.nfrees++
	return rec, nil
}

// detach remove the record without touching the counters, the record
// is either restored or replaced by attach.
func (reg *registry) detach(address uintptr) (*record, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rec, ok := reg.records[address]
	if !ok {
		return nil, ErrorUnknownAddress
	}
	delete(reg.records, address)
	return rec, nil
}

// restore a detached record as it was.
func (reg *registry) restore(rec *record) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.records[rec.address()]; ok {
		return ErrorDuplicateAddress
	}
	reg.records[rec.address()] = rec
	return nil
}

// attach a resized record in place of a detached one that had
// `oldsize` payload bytes, counters are adjusted by the difference.
func (reg *registry) attach(rec *record, oldsize int64) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.records[rec.address()]; ok {
		reg.current -= oldsize
		return ErrorDuplicateAddress
	}
	reg.records[rec.address()] = rec
	reg.nreallocs++
	reg.sizes.Add(rec.size)
	delta := rec.size - oldsize
	if delta > 0 {
		reg.grow(delta, delta)
	} else {
		reg.current += delta
	}
	return nil
}

func (reg *registry) grow(current, total int64) {
	reg.current += current
	reg.total += total
	if reg.current > reg.peak {
		reg.peak = reg.current
	}
}

// foreach call visitor for every live record while holding the lock,
// order is unspecified. Visitor must not call back into registry.
func (reg *registry) foreach(visitor func(rec *record) bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.foreachLocked(visitor)
}

func (reg *registry) foreachLocked(visitor func(rec *record) bool) {
	for _, rec := range reg.records {
		if !visitor(rec) {
			return
		}
	}
}

// scan run fn holding the lock for the entire duration, fn can walk
// the live records with foreachLocked and call countersLocked.
func (reg *registry) scan(fn func()) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	fn()
}

// drain remove every live record, sorted by address, adjusting the
// counters as if each one was freed.
func (reg *registry) drain() []*record {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	recs := make([]*record, 0, len(reg.records))
	reg.foreachLocked(func(rec *record) bool {
		recs = append(recs, rec)
		return true
	})
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].address() < recs[j].address()
	})
	for _, rec := range recs {
		delete(reg.records, rec.address())
		reg.current -= rec.size
	}
	return recs
}

func (reg *registry) counters() (current, peak, total, count int64) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.countersLocked()
}

func (reg *registry) countersLocked() (current, peak, total, count int64) {
	return reg.current, reg.peak, reg.total, int64(len(reg.records))
}

// stats snapshot counters under the lock, size histogram is
// summarized from a copy after releasing it.
func (reg *registry) stats() map[string]interface{} {
	reg.mu.Lock()
	current, peak, total, count := reg.countersLocked()
	stats := map[string]interface{}{
		"current":   current,
		"peak":      peak,
		"total":     total,
		"count":     count,
		"nallocs":   reg.nallocs,
		"nfrees":    reg.nfrees,
		"nreallocs": reg.nreallocs,
	}
	sizes := reg.sizes.Clone()
	reg.mu.Unlock()

	stats["sizes"] = sizes.Fullstats()
	return stats
}
