// This file is part of the library "pulsenative".
// Please see the LICENSE file for copyright information.

package pulsenative

import (
	"os"

	"github.com/charmbracelet/log"
)

// defaultLogger is used when no logger is supplied. It only surfaces
// errors; pass a debug-level logger via WithLogger to watch the wire.
var defaultLogger = log.NewWithOptions(os.Stderr, log.Options{
	Level:  log.ErrorLevel,
	Prefix: "pulsenative",
})
