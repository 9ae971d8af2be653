package badgerdb

import (
	"fmt"
	"strings"

	"github.com/celer-network/go-airdrop/log"
)

// extendedLog adapts the module logger to badger.Logger.
type extendedLog struct {
	*log.Logger
}

func (l *extendedLog) Errorf(f string, v ...interface{}) {
	l.Error().Msg(trimmed(f, v...))
}

func (l *extendedLog) Warningf(f string, v ...interface{}) {
	l.Warn().Msg(trimmed(f, v...))
}

func (l *extendedLog) Infof(f string, v ...interface{}) {
	// badger is chatty at info level
	l.Debug().Msg(trimmed(f, v...))
}

func (l *extendedLog) Debugf(f string, v ...interface{}) {
	l.Debug().Msg(trimmed(f, v...))
}

func trimmed(f string, v ...interface{}) string {
	return strings.TrimSuffix(fmt.Sprintf(f, v...), "\n")
}
