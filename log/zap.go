package log

import "sync/atomic"

import "go.uber.org/zap"

// zaplogger route hmemory logging to a zap.SugaredLogger. Fatal level
// is logged as error, zap's own Fatal would exit the process.
type zaplogger struct {
	level int64
	sugar *zap.SugaredLogger
}

// NewZaplogger return a Logger that writes to `sugar`, filtering
// messages above `level`. Use it with SetLogger.
func NewZaplogger(sugar *zap.SugaredLogger, level string) Logger {
	return &zaplogger{level: int64(string2logLevel(level)), sugar: sugar}
}

func (l *zaplogger) SetLogLevel(level string) {
	atomic.StoreInt64(&l.level, int64(string2logLevel(level)))
}

func (l *zaplogger) Fatalf(format string, v ...interface{}) {
	l.Printlf(logLevelFatal, format, v...)
}

func (l *zaplogger) Errorf(format string, v ...interface{}) {
	l.Printlf(logLevelError, format, v...)
}

func (l *zaplogger) Warnf(format string, v ...interface{}) {
	l.Printlf(logLevelWarn, format, v...)
}

func (l *zaplogger) Infof(format string, v ...interface{}) {
	l.Printlf(logLevelInfo, format, v...)
}

func (l *zaplogger) Verbosef(format string, v ...interface{}) {
	l.Printlf(logLevelVerbose, format, v...)
}

func (l *zaplogger) Debugf(format string, v ...interface{}) {
	l.Printlf(logLevelDebug, format, v...)
}

func (l *zaplogger) Tracef(format string, v ...interface{}) {
	l.Printlf(logLevelTrace, format, v...)
}

func (l *zaplogger) Printlf(level LogLevel, format string, v ...interface{}) {
	if level > LogLevel(atomic.LoadInt64(&l.level)) {
		return
	}
	switch level {
	case logLevelIgnore:
	case logLevelFatal, logLevelError:
		l.sugar.Errorf(format, v...)
	case logLevelWarn:
		l.sugar.Warnf(format, v...)
	case logLevelInfo:
		l.sugar.Infof(format, v...)
	default:
		l.sugar.Debugf(format, v...)
	}
}
