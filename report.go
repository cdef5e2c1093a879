package hmemory

import "io"
import "os"
import "fmt"
import "sync"
import "reflect"
import "runtime"
import "strings"

import "github.com/bnclabs/hmemory/lib"
import "golang.org/x/sys/unix"

// Symbolizer resolve return addresses into source locations. It is
// best effort, frames it cannot resolve shall have an empty Function.
type Symbolizer interface {
	Resolve(pcs []uintptr) []lib.Frame
}

// SymbolizerFunc adapt a function as Symbolizer.
type SymbolizerFunc func(pcs []uintptr) []lib.Frame

// Resolve implement Symbolizer interface.
func (fn SymbolizerFunc) Resolve(pcs []uintptr) []lib.Frame {
	return fn(pcs)
}

// DefaultSymbolizer use the runtime's symbol table.
var DefaultSymbolizer Symbolizer = SymbolizerFunc(lib.Symbolize)

// frames of these types are not part of a reported call stack.
var engineframes = func() []string {
	pkgpath := reflect.TypeOf((*Memory)(nil)).Elem().PkgPath()
	return []string{
		pkgpath + ".(*Memory).",
		pkgpath + ".(*reporter).",
		pkgpath + ".(*registry).",
	}
}()

// reporter serialize diagnostic reports to an output stream, one
// message at a time, every line prefixed with process id.
type reporter struct {
	mu         sync.Mutex
	out        io.Writer
	prefix     string
	policy     *Policy
	symbolizer Symbolizer
	depth      int
	counts     map[error]int64
}

func newreporter(policy *Policy, depth int) *reporter {
	return &reporter{
		out:        os.Stderr,
		prefix:     fmt.Sprintf("(hmemory:%d) ", unix.Getpid()),
		policy:     policy,
		symbolizer: DefaultSymbolizer,
		depth:      depth,
		counts:     make(map[error]int64),
	}
}

func (r *reporter) setoutput(out io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if out == nil {
		out = os.Stderr
	}
	r.out = out
}

func (r *reporter) setsymbolizer(symbolizer Symbolizer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if symbolizer == nil {
		symbolizer = DefaultSymbolizer
	}
	r.symbolizer = symbolizer
}

// report an error of `kind` detected by an operation invoked at site.
func (r *reporter) report(kind error, site Site, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	var pcs []uintptr
	if r.policy.Reportcallstack() {
		pcs = userframes(lib.Callers(1, r.depth+16))
		if len(pcs) > r.depth {
			pcs = pcs[:r.depth]
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lines := []string{msg, "    at: " + site.String()}
	lines = append(lines, r.callstack(pcs)...)
	r.counts[kind]++
	r.writelines(lines)
	errorf("%v at %v", msg, site)
}

// printf write a single line message.
func (r *reporter) printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writelines([]string{fmt.Sprintf(format, args...)})
}

// lines write a block of lines as a single message.
func (r *reporter) lines(lines []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writelines(lines)
}

func (r *reporter) count(kind error) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[kind]
}

func (r *reporter) stats() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := make(map[string]interface{})
	for kind, n := range r.counts {
		key := strings.TrimPrefix(kind.Error(), "hmemory.")
		stats[key] = n
	}
	return stats
}

func (r *reporter) writelines(lines []string) {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(r.prefix)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	io.WriteString(r.out, sb.String())
}

// callstack symbolize pcs, frames that cannot be resolved, or all of
// them when the symbolizer fails, are printed as bare addresses.
func (r *reporter) callstack(pcs []uintptr) (lines []string) {
	if len(pcs) == 0 {
		return nil
	}
	addronly := func() []string {
		lines := make([]string, 0, len(pcs))
		for _, pc := range pcs {
			lines = append(lines, fmt.Sprintf("       %#x: ??", pc))
		}
		return lines
	}
	defer func() {
		if recover() != nil {
			lines = addronly()
		}
	}()

	frames := r.symbolizer.Resolve(pcs)
	if len(frames) == 0 {
		return addronly()
	}
	for _, frame := range frames {
		if frame.Function == "" {
			lines = append(lines, fmt.Sprintf("       %#x: ??", frame.PC))
			continue
		}
		fmsg := "       %#x: %v (%v:%v)"
		file := lib.Shortfile(frame.File)
		lines = append(lines, fmt.Sprintf(fmsg, frame.PC, frame.Function, file, frame.Line))
	}
	return lines
}

// userframes drop the leading frames that belong to the engine.
func userframes(pcs []uintptr) []uintptr {
	for len(pcs) > 0 && isengineframe(pcs[0]) {
		pcs = pcs[1:]
	}
	return pcs
}

func isengineframe(pc uintptr) bool {
	fn := runtime.FuncForPC(pc - 1)
	if fn == nil {
		return false
	}
	name := fn.Name()
	for _, prefix := range engineframes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
