package logger

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"
)

// logEntry is a single formatted log line together with the level it was
// emitted at.
type logEntry struct {
	log   []byte
	level Level
}

// Logger is a subsystem logger. All messages are formatted with the
// subsystem tag and forwarded to the owning Backend.
type Logger struct {
	lvl       Level // atomic through SetLevel/Level
	tag       string
	b         *Backend
	writeChan chan<- logEntry
}

// Level returns the current logging level.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32((*uint32)(&l.lvl)))
}

// SetLevel changes the logging level to the passed level.
func (l *Logger) SetLevel(level Level) {
	atomic.StoreUint32((*uint32)(&l.lvl), uint32(level))
}

// Trace formats a message using the default formats for its operands and
// writes it at the trace level.
func (l *Logger) Trace(args ...interface{}) {
	l.print(LevelTrace, args...)
}

// Tracef formats a message according to a format specifier and writes it
// at the trace level.
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.printf(LevelTrace, format, args...)
}

// Debug formats a message using the default formats for its operands and
// writes it at the debug level.
func (l *Logger) Debug(args ...interface{}) {
	l.print(LevelDebug, args...)
}

// Debugf formats a message according to a format specifier and writes it
// at the debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.printf(LevelDebug, format, args...)
}

// Info formats a message using the default formats for its operands and
// writes it at the info level.
func (l *Logger) Info(args ...interface{}) {
	l.print(LevelInfo, args...)
}

// Infof formats a message according to a format specifier and writes it
// at the info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.printf(LevelInfo, format, args...)
}

// Warn formats a message using the default formats for its operands and
// writes it at the warn level.
func (l *Logger) Warn(args ...interface{}) {
	l.print(LevelWarn, args...)
}

// Warnf formats a message according to a format specifier and writes it
// at the warn level.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.printf(LevelWarn, format, args...)
}

// Error formats a message using the default formats for its operands and
// writes it at the error level.
func (l *Logger) Error(args ...interface{}) {
	l.print(LevelError, args...)
}

// Errorf formats a message according to a format specifier and writes it
// at the error level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.printf(LevelError, format, args...)
}

// Critical formats a message using the default formats for its operands
// and writes it at the critical level.
func (l *Logger) Critical(args ...interface{}) {
	l.print(LevelCritical, args...)
}

// Criticalf formats a message according to a format specifier and writes
// it at the critical level.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.printf(LevelCritical, format, args...)
}

func (l *Logger) print(level Level, args ...interface{}) {
	if level < l.Level() {
		return
	}
	l.write(level, fmt.Sprint(args...))
}

func (l *Logger) printf(level Level, format string, args ...interface{}) {
	if level < l.Level() {
		return
	}
	l.write(level, fmt.Sprintf(format, args...))
}

func (l *Logger) write(level Level, message string) {
	t := time.Now()

	buf := make([]byte, 0, normalLogSize)
	buf = append(buf, t.Format("2006-01-02 15:04:05.000")...)
	buf = append(buf, " ["...)
	buf = append(buf, level.String()...)
	buf = append(buf, "] "...)
	buf = append(buf, l.tag...)
	if l.b.flag&(LogFlagShortFile|LogFlagLongFile) != 0 {
		file, line := callsite(l.b.flag)
		buf = append(buf, ' ')
		buf = append(buf, fmt.Sprintf("%s:%d", file, line)...)
	}
	buf = append(buf, ": "...)
	buf = append(buf, message...)
	buf = append(buf, '\n')

	l.writeChan <- logEntry{log: buf, level: level}
}

// callsite returns the file name and line number of the logging callsite.
func callsite(flag uint32) (string, int) {
	_, file, line, ok := runtime.Caller(4)
	if !ok {
		return "???", 0
	}
	if flag&LogFlagShortFile != 0 {
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if file[i] == '/' {
				short = file[i+1:]
				break
			}
		}
		file = short
	}
	return file, line
}
