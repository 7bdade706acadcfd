package logging

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var (
	logFile  *os.File
	logMutex sync.Mutex
)

func init() {
	var err error
	logFile, err = os.OpenFile("ec2tui.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		// The TUI owns the terminal, so there is nowhere useful to complain.
		logFile = nil
	}
}

func log(level, msg string) {
	logMutex.Lock()
	defer logMutex.Unlock()
	if logFile == nil {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(logFile, "%s [%s] %s\n", timestamp, level, msg)
	logFile.Sync()
}

func LogDebug(format string, args ...interface{}) {
	log("DEBUG", fmt.Sprintf(format, args...))
}

func LogError(format string, args ...interface{}) {
	log("ERROR", fmt.Sprintf(format, args...))
}
