package selench

import (
	"log"
)

var debugFlag = false

// SetDebug turns debug logging on or off.
func SetDebug(debug bool) {
	debugFlag = debug
}

func debugLog(format string, args ...interface{}) {
	if !debugFlag {
		return
	}
	log.Printf("selench: "+format+"\n", args...)
}
