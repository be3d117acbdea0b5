package vrptw

import (
	"log"
	"time"
)

// Verbosity filters Log output: 1 errors, 2 progress, 3 debug.
var Verbosity = 2

func Log(level int, format string, a ...interface{}) {
	if level <= Verbosity {
		log.Printf(format, a...)
	}
}

// Timed logs the duration of an operation when the returned func is called,
// with the error it ended with (if any).
//
//	defer Timed("solve")(&err)
func Timed(name string) func(errp *error) {
	start := time.Now()
	return func(errp *error) {
		dur := time.Since(start)
		if errp != nil && *errp != nil {
			Log(1, "op=%s dur=%dms err=%v", name, dur.Milliseconds(), *errp)
			return
		}
		Log(2, "op=%s dur=%dms", name, dur.Milliseconds())
	}
}
