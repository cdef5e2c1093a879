package hmemory

import "io"
import "os"
import "fmt"
import "sync"
import "time"
import "sync/atomic"

import "github.com/bnclabs/hmemory/lib"
import "github.com/bnclabs/hmemory/malloc"
import gohumanize "github.com/dustin/go-humanize"
import "golang.org/x/sys/unix"

// Memory debugging allocator. Every block handed out is bracketed by
// guards and tracked in a registry until it is freed, a background
// worker periodically validates the guards of all live blocks and
// Close reports whatever is still tracked as leak.
type Memory struct {
	nescalations int64 // 64-bit aligned atomic

	logprefix string
	setts     lib.Settings
	policy    *Policy
	registry  *registry
	reporter  *reporter
	raw       malloc.Rawallocator
	abort     atomic.Value // func(error)

	// validation worker
	degraded bool
	stopch   chan struct{}
	wg       sync.WaitGroup

	closeonce sync.Once
	closeerr  error
}

// New create a debugging allocator and start its validation worker,
// refer Defaultsettings() for `setts`.
func New(setts lib.Settings) *Memory {
	setts = Defaultsettings().Mixin(setts)
	policy := NewPolicy(setts)
	m := &Memory{
		logprefix: "HMEM",
		setts:     setts,
		policy:    policy,
		registry:  newregistry(),
		reporter:  newreporter(policy, int(setts.Int64("callstack.depth"))),
		raw:       malloc.New(setts),
	}
	m.abort.Store(defaultabort)

	if err := m.startworker(); err != nil {
		m.degraded = true
		m.reporter.printf("hmemory::error: failed to create worker: %v", err)
		warnf("%v running without validation worker: %v", m.logprefix, err)
	}
	infof("%v started with %q allocator", m.logprefix, m.raw.Name())
	return m
}

// SetAbort install the function called on escalation when policy
// asks to abort, nil restores the default that raises SIGABRT.
func (m *Memory) SetAbort(fn func(error)) *Memory {
	if fn == nil {
		fn = defaultabort
	}
	m.abort.Store(fn)
	return m
}

// SetOutput for diagnostic reports, default is os.Stderr.
func (m *Memory) SetOutput(out io.Writer) *Memory {
	m.reporter.setoutput(out)
	return m
}

// SetSymbolizer to resolve call stacks in diagnostic reports, nil
// restores DefaultSymbolizer.
func (m *Memory) SetSymbolizer(symbolizer Symbolizer) *Memory {
	m.reporter.setsymbolizer(symbolizer)
	return m
}

// Policy return the policy resolver used by this instance.
func (m *Memory) Policy() *Policy {
	return m.policy
}

// Degraded return true if validation worker could not be started.
func (m *Memory) Degraded() bool {
	return m.degraded
}

// Reports return the number of diagnostic reports of `kind`.
func (m *Memory) Reports(kind error) int64 {
	return m.reporter.count(kind)
}

// Close stop the validation worker, report final statistics and
// every allocation that was never freed. Leaked blocks are released
// and ErrorLeakDetected is escalated. Subsequent calls return the
// result of the first call.
func (m *Memory) Close() error {
	m.closeonce.Do(func() {
		m.closeerr = m.teardown()
	})
	return m.closeerr
}

func (m *Memory) teardown() error {
	m.stopworker()

	// counters are read before drain, leaked blocks count as current.
	current, peak, total, count := m.registry.counters()
	leaks := m.registry.drain()
	lines := m.statslines(current, peak, total, count)
	lines = append(lines, fmt.Sprintf("    leaks  : %d items", len(leaks)))
	m.reporter.lines(lines)

	var leaked int64
	for _, rec := range leaks {
		fmsg := "- %d bytes at: %p %s %s"
		payload := payloadof(rec.raw)
		m.reporter.report(ErrorLeakDetected, rec.site, fmsg, rec.size, payload, rec.label, rec.site)
		leaked += rec.size
		m.raw.Free(rec.raw, rawsize(rec.size))
	}
	m.raw.Release()

	if len(leaks) == 0 {
		infof("%v closed", m.logprefix)
		return nil
	}
	err := fmt.Errorf("%w: %d items, %s", ErrorLeakDetected, len(leaks), gohumanize.Bytes(uint64(leaked)))
	m.escalate(err)
	return err
}

// escalate a detected error, either abort the process or continue
// after writing an error line, as decided by policy.
func (m *Memory) escalate(err error) {
	atomic.AddInt64(&m.nescalations, 1)
	if m.policy.Assertonerror() {
		m.reporter.printf("hmemory::assert: %v", err)
		m.abort.Load().(func(error))(err)
		return
	}
	m.reporter.printf("hmemory::error: %v", err)
}

func defaultabort(err error) {
	unix.Kill(unix.Getpid(), unix.SIGABRT)
	time.Sleep(time.Second)
	os.Exit(134)
}
