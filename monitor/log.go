package monitor

import (
	"fmt"

	"github.com/golang/glog"
)

// GlogProvider routes driver logs to glog. Debug output needs -v=2.
type GlogProvider struct {
	Prefix string
}

// Errorf Log ERROR level message.
func (sf GlogProvider) Errorf(format string, v ...interface{}) {
	glog.ErrorDepth(1, sf.sprintf(format, v...))
}

// Debugf Log DEBUG level message.
func (sf GlogProvider) Debugf(format string, v ...interface{}) {
	if glog.V(2) {
		glog.InfoDepth(1, sf.sprintf(format, v...))
	}
}

func (sf GlogProvider) sprintf(format string, v ...interface{}) string {
	return sf.Prefix + fmt.Sprintf(format, v...)
}
