package log

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

type Logger struct {
	*log.Entry
}

// base is shared by every module logger so level, output and hooks are set
// in one place.
var base *log.Logger

func init() {
	base = log.New()
	base.SetFormatter(&log.TextFormatter{
		DisableColors:    false,
		DisableTimestamp: false,
	})
	base.SetOutput(os.Stdout)
	base.SetLevel(log.WarnLevel)
}

func NewLogger(module string) *Logger {
	baselogger := base.WithFields(
		log.Fields{
			"name": module,
		})
	return &Logger{baselogger}
}

func SetLevel(level string) error {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	base.SetLevel(parsed)
	return nil
}

func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

func Base() *log.Logger {
	return base
}
