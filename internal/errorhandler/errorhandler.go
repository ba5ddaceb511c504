package errorhandler

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"github.com/777genius/sinkswitch/internal/logging"
)

type handler struct {
	logToConsole    bool
	exitOnCritical  bool
	recoveryEnabled bool
}

var (
	mu      sync.RWMutex
	current = handler{logToConsole: true, recoveryEnabled: true}

	// exit is swapped in tests
	exit = os.Exit
)

// Init configures the process-wide handler
func Init(logToConsole, exitOnCritical, recoveryEnabled bool) {
	mu.Lock()
	defer mu.Unlock()
	current = handler{
		logToConsole:    logToConsole,
		exitOnCritical:  exitOnCritical,
		recoveryEnabled: recoveryEnabled,
	}
}

func settings() handler {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// HandlePanic must be deferred directly. It logs the panic with its stack and
// swallows it when recovery is enabled.
func HandlePanic() {
	h := settings()
	if !h.recoveryEnabled {
		return
	}
	if r := recover(); r != nil {
		logging.Error("panic recovered: %v\n%s", r, debug.Stack())
		if h.logToConsole {
			fmt.Fprintf(os.Stderr, "Fatal: %v\n", r)
		}
		exit(2)
	}
}

// HandleCriticalError reports err with context. Exits with status 1 if configured to.
func HandleCriticalError(err error, context string) {
	if err == nil {
		return
	}
	h := settings()

	logging.Error("%s: %v", context, err)
	if h.logToConsole {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", context, err)
	}
	if h.exitOnCritical {
		exit(1)
	}
}
