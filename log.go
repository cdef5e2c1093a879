package hmemory

import "sync/atomic"

import "github.com/bnclabs/hmemory/lib"
import "github.com/bnclabs/hmemory/log"

var logok = int64(0)

// LogComponents enable logging. By default logging is disabled, if
// applications want log information for hmemory components call this
// function with "self" or "hmemory" or "all" as argument. Each argument
// can also be a comma separated list. Diagnostic reports are written
// to the configured output irrespective of this.
func LogComponents(components ...string) {
	for _, arg := range components {
		for _, comp := range lib.Parsecsv(arg) {
			switch comp {
			case "hmemory", "self", "all":
				atomic.StoreInt64(&logok, 1)
			}
		}
	}
}

func debugf(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Debugf(format, v...)
	}
}

func errorf(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Errorf(format, v...)
	}
}

func warnf(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Warnf(format, v...)
	}
}

func infof(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Infof(format, v...)
	}
}
