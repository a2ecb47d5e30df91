package logger

import (
	"fmt"
	"os"
	"sync"

	glog "github.com/Laisky/go-utils/v6/log"

	"github.com/aitoolhub/aitoolhub/common/config"
)

// Logger is the process-wide structured logger. Request-scoped code should
// prefer gmw.GetLogger(c) so entries carry the request id.
var Logger glog.Logger = glog.Shared

var setupOnce sync.Once

// SetupLogger initializes the global logger. Safe to call more than once.
func SetupLogger() {
	setupOnce.Do(func() {
		level := glog.LevelInfo
		if config.DebugEnabled {
			level = glog.LevelDebug
		}
		logger, err := glog.NewConsoleWithName("aitoolhub", level)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create logger: %+v\n", err)
			os.Exit(1)
		}
		Logger = logger
	})
}
