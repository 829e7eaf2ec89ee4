// Copyright (c) 2017-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package viralloop

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/decred/slog"
	v1 "github.com/viralloop/viralloop-go/api/v1"
	"github.com/viralloop/viralloop-go/cache"
	"github.com/viralloop/viralloop-go/cache/rediscache"
	"github.com/viralloop/viralloop-go/client"
	"github.com/viralloop/viralloop-go/device"
	"github.com/viralloop/viralloop-go/kv/fallback"
	"github.com/viralloop/viralloop-go/kv/legacydb"
	"github.com/viralloop/viralloop-go/kv/securedb"
	"github.com/viralloop/viralloop-go/storage"
)

// logWriter implements an io.Writer that forwards to a replaceable
// destination. It defaults to standard output.
type logWriter struct {
	sync.Mutex
	w io.Writer
}

func (l *logWriter) Write(p []byte) (int, error) {
	l.Lock()
	defer l.Unlock()
	return l.w.Write(p)
}

// Loggers per subsystem. A single backend logger is created and all
// subsystem loggers created from it will write to the backend. When adding
// new subsystems, add the subsystem logger variable here and to the
// subsystemLoggers map.
var (
	logOut = &logWriter{w: os.Stdout}

	// backendLog is the logging backend used to create all subsystem
	// loggers.
	backendLog = slog.NewBackend(logOut)

	log         = backendLog.Logger("VRLP")
	httpLog     = backendLog.Logger("HTTP")
	apiLog      = backendLog.Logger("APIV")
	storageLog  = backendLog.Logger("STOR")
	secureLog   = backendLog.Logger("SKVS")
	legacyLog   = backendLog.Logger("LKVS")
	fallbackLog = backendLog.Logger("FBKV")
	cacheLog    = backendLog.Logger("CACH")
	deviceLog   = backendLog.Logger("DEVI")
)

// Initialize package-global logger variables.
func init() {
	client.UseLogger(httpLog)
	v1.UseLogger(apiLog)
	storage.UseLogger(storageLog)
	securedb.UseLogger(secureLog)
	legacydb.UseLogger(legacyLog)
	fallback.UseLogger(fallbackLog)
	cache.UseLogger(cacheLog)
	rediscache.UseLogger(cacheLog)
	device.UseLogger(deviceLog)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]slog.Logger{
	"VRLP": log,
	"HTTP": httpLog,
	"APIV": apiLog,
	"STOR": storageLog,
	"SKVS": secureLog,
	"LKVS": legacyLog,
	"FBKV": fallbackLog,
	"CACH": cacheLog,
	"DEVI": deviceLog,
}

// SetLogWriter redirects the output of all SDK loggers.
func SetLogWriter(w io.Writer) {
	logOut.Lock()
	defer logOut.Unlock()
	logOut.w = w
}

// SupportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func SupportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// normalizeLogLevel maps the level names of the mobile SDKs onto slog level
// names.
func normalizeLogLevel(logLevel string) string {
	switch l := strings.ToLower(strings.TrimSpace(logLevel)); l {
	case "none":
		return "off"
	case "warning":
		return "warn"
	default:
		return l
	}
}

// validLogLevel returns whether the provided normalized level is valid.
func validLogLevel(logLevel string) bool {
	switch logLevel {
	case "trace", "debug", "info", "warn", "error", "critical", "off":
		return true
	}
	return false
}

// setLogLevel sets the logging level for provided subsystem. Invalid
// subsystems are ignored.
func setLogLevel(subsystemID string, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}

	// Defaults to info if the log level is invalid.
	level, _ := slog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// setLogLevels sets the log level for all subsystem loggers to the passed
// level.
func setLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		setLogLevel(subsystemID, logLevel)
	}
}

// SetLogLevels parses the provided debug level and sets the levels
// accordingly. The debug level is either a single level that applies to all
// subsystems or a comma separated list of SUBSYSTEM=level pairs. The levels
// none and warning are accepted as aliases of off and warn.
func SetLogLevels(debugLevel string) error {
	// When the specified string doesn't have any delimters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") &&
		!strings.Contains(debugLevel, "=") {
		logLevel := normalizeLogLevel(debugLevel)
		if !validLogLevel(logLevel) {
			return fmt.Errorf("the specified debug level [%v] is invalid",
				debugLevel)
		}
		setLogLevels(logLevel)
		return nil
	}

	// Split the specified string into subsystem/level pairs while
	// detecting issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		subsysID, level, ok := strings.Cut(logLevelPair, "=")
		if !ok {
			return fmt.Errorf("the specified debug level contains an "+
				"invalid subsystem/level pair [%v]", logLevelPair)
		}
		subsysID = strings.TrimSpace(subsysID)

		if _, exists := subsystemLoggers[subsysID]; !exists {
			return fmt.Errorf("the specified subsystem [%v] is invalid "+
				"-- supported subsystems %v", subsysID,
				SupportedSubsystems())
		}
		logLevel := normalizeLogLevel(level)
		if !validLogLevel(logLevel) {
			return fmt.Errorf("the specified debug level [%v] is invalid",
				level)
		}

		setLogLevel(subsysID, logLevel)
	}

	return nil
}

// logClosure is a closure that can be printed with %v to be used to
// generate expensive-to-create data for a detailed log level and avoid doing
// the work if the data isn't printed.
type logClosure func() string

func (c logClosure) String() string {
	return c()
}

func newLogClosure(c func() string) logClosure {
	return logClosure(c)
}
