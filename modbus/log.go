package modbus

import (
	"log"
	"os"
	"sync/atomic"
)

// clogs gates log output of an injected provider.
type clogs struct {
	logger LogProvider
	// is log output enabled,1: enable, 0: disable
	hasLog uint32
}

// LogMode set enable or disable log output when you has set logger
func (sf *clogs) LogMode(enable bool) {
	if enable {
		atomic.StoreUint32(&sf.hasLog, 1)
	} else {
		atomic.StoreUint32(&sf.hasLog, 0)
	}
}

// SetLogProvider set logger provider
func (sf *clogs) SetLogProvider(p LogProvider) {
	if p != nil {
		sf.logger = p
	}
}

// Errorf Log ERROR level message.
func (sf *clogs) Errorf(format string, v ...interface{}) {
	if atomic.LoadUint32(&sf.hasLog) == 1 && sf.logger != nil {
		sf.logger.Errorf(format, v...)
	}
}

// Debugf Log DEBUG level message.
func (sf *clogs) Debugf(format string, v ...interface{}) {
	if atomic.LoadUint32(&sf.hasLog) == 1 && sf.logger != nil {
		sf.logger.Debugf(format, v...)
	}
}

// StdLogger is a LogProvider writing to stderr through the standard logger.
type StdLogger struct {
	*log.Logger
}

var _ LogProvider = (*StdLogger)(nil)

// NewStdLogger returns a StdLogger with the given prefix.
func NewStdLogger(prefix string) *StdLogger {
	return &StdLogger{
		log.New(os.Stderr, prefix, log.LstdFlags),
	}
}

// Errorf Log ERROR level message.
func (sf *StdLogger) Errorf(format string, v ...interface{}) {
	sf.Printf("[E]: "+format, v...)
}

// Debugf Log DEBUG level message.
func (sf *StdLogger) Debugf(format string, v ...interface{}) {
	sf.Printf("[D]: "+format, v...)
}
