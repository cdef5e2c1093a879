package hmemory

import "fmt"
import "time"
import "math/rand"
import "runtime/debug"

import "github.com/bnclabs/hmemory/lib"
import "go.uber.org/multierr"

func (m *Memory) startworker() error {
	interval, _ := m.policy.Checkinterval()
	if interval <= 0 {
		return fmt.Errorf("invalid check interval %v", interval)
	}
	m.stopch = make(chan struct{})
	m.wg.Add(1)
	go m.worker(interval)
	return nil
}

func (m *Memory) stopworker() {
	if m.stopch == nil {
		return
	}
	close(m.stopch)
	m.wg.Wait()
}

// worker wake up every check interval to validate all live blocks,
// until stopch is closed. Stop is honoured while waiting, never in
// the middle of a scan.
func (m *Memory) worker(interval time.Duration) {
	defer m.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			errorf("%v worker crashed: %v\n", m.logprefix, r)
			errorf("\n%s", lib.GetStacktrace(2, debug.Stack()))
		}
	}()

	infof("%v validation worker started", m.logprefix)
	for {
		interval = m.nextcheck(interval)
		timer := time.NewTimer(interval)
		select {
		case <-m.stopch:
			timer.Stop()
			infof("%v validation worker stopped", m.logprefix)
			return
		case <-timer.C:
		}
		m.validate("worker check", true /*withstats*/)
	}
}

// nextcheck resolve the wait before next scan, if policy does not
// yield a positive interval the previous one is used.
func (m *Memory) nextcheck(previous time.Duration) time.Duration {
	interval, explicit := m.policy.Checkinterval()
	if interval <= 0 {
		return previous
	} else if explicit {
		return interval
	}
	return jitter(interval, m.policy.Jitter())
}

// jitter interval by a random amount within +/- percent.
func jitter(interval time.Duration, percent int64) time.Duration {
	span := int64(interval) * percent / 100
	if span <= 0 {
		return interval
	}
	return interval + time.Duration(rand.Int63n(2*span+1)-span)
}

// validate verify every live block holding the registry lock for the
// entire scan, so that no block is freed or resized while checked.
func (m *Memory) validate(command string, withstats bool) error {
	var errs []error
	m.registry.scan(func() {
		m.registry.foreachLocked(func(rec *record) bool {
			if side := rec.verify(); side != 0 {
				cerr := &CorruptionError{Allocation: rec.allocation(), Side: side}
				m.reportcorruption(command, cerr, rec.site)
				m.escalate(cerr)
				errs = append(errs, cerr)
			}
			return true
		})
		if withstats {
			m.reporter.lines(m.statslines(m.registry.countersLocked()))
		}
	})
	return multierr.Combine(errs...)
}
