// Package errreport forwards unexpected server errors to rollbar when a
// token is configured.
package errreport

import (
	"github.com/rollbar/rollbar-go"
)

var enabled bool

func Init(token, environment, host string) {
	if token == "" {
		rollbar.SetEnabled(false)
		return
	}

	rollbar.SetToken(token)
	rollbar.SetEnvironment(environment)
	rollbar.SetServerHost(host)
	rollbar.SetEnabled(true)
	enabled = true
}

func Enabled() bool {
	return enabled
}

// Report sends err with extra request fields. It is a no-op when disabled.
func Report(err error, extras map[string]interface{}) {
	if !enabled || err == nil {
		return
	}
	rollbar.Error(err, extras)
}

// Close flushes queued reports.
func Close() {
	if enabled {
		rollbar.Close()
	}
}
