// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// serviceFormatter stamps every entry with the service name and the unix
// time in milliseconds before handing it to the wrapped formatter.
type serviceFormatter struct {
	service string
	log.Formatter
}

func (f *serviceFormatter) Format(e *log.Entry) ([]byte, error) {
	data := make(log.Fields, len(e.Data)+2)
	for k, v := range e.Data {
		data[k] = v
	}
	data["epochTimeMillis"] = e.Time.UnixNano() / int64(time.Millisecond)
	data["service"] = f.service
	e.Data = data
	return f.Formatter.Format(e)
}

// Setup points the standard logrus logger at stdout with JSON output.
// verbose lowers the level to Debug.
func Setup(service string, verbose bool) {
	SetupTo(os.Stdout, service, verbose)
}

// SetupTo is Setup with an explicit writer.
func SetupTo(w io.Writer, service string, verbose bool) {
	log.SetOutput(w)
	log.SetFormatter(&serviceFormatter{
		service:   service,
		Formatter: &log.JSONFormatter{DisableTimestamp: true},
	})
	log.SetLevel(log.InfoLevel)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// For returns an entry tagged with the given component name.
func For(component string) *log.Entry {
	return log.WithField("component", component)
}
