package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Sink is the opaque log(severity, message) contract of §6. Every allocator
// and the disk B+ tree accept one at construction; none of them know or care
// how it is implemented.
type Sink interface {
	Log(sev Severity, msg string, kv ...any)
}

// nopSink discards everything. It is the package-wide default so that
// allocators and containers never take a hard dependency on a configured
// logger.
type nopSink struct{}

func (nopSink) Log(Severity, string, ...any) {}

// Nop is the default sink used whenever a caller does not supply one.
var Nop Sink = nopSink{}

// logrusSink adapts a logrus.Logger to the Sink contract.
type logrusSink struct {
	log *logrus.Logger
}

// NewLogrusSink builds a Sink backed by logrus, writing to w.
func NewLogrusSink(w io.Writer) Sink {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &logrusSink{log: l}
}

func (s *logrusSink) Log(sev Severity, msg string, kv ...any) {
	fields := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fields[key] = kv[i+1]
	}
	entry := s.log.WithFields(fields)
	switch sev {
	case Trace:
		entry.Trace(msg)
	case Debug:
		entry.Debug(msg)
	case Information:
		entry.Info(msg)
	case Warning:
		entry.Warn(msg)
	case Error:
		entry.Error(msg)
	default:
		entry.Info(msg)
	}
}
