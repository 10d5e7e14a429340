// internal/logging/logging.go
package logging

import (
	"io"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
)

// Setup routes all log entries to w as text, at the given level.
func Setup(w io.Writer, level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetHandler(text.New(w))
	log.SetLevel(lvl)
	return nil
}
