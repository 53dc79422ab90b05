package common

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// CrashLogDir receives crash-*.log files; set once by InstallCrashHandler
var CrashLogDir = "logs"

// InstallCrashHandler points crash reports at logDir (the log directory when empty)
func InstallCrashHandler(logDir string) {
	if logDir == "" {
		logDir = logDirectory()
	}
	CrashLogDir = logDir

	if err := os.MkdirAll(CrashLogDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "CRASH: Failed to create log directory: %v\n", err)
	}
}

// BuildCrashReport formats the panic value, its stack and a runtime snapshot
func BuildCrashReport(panicVal interface{}, stackTrace string, at time.Time) []byte {
	var report bytes.Buffer

	fmt.Fprintf(&report, "=== OFFICEFLOW CRASH REPORT ===\n")
	fmt.Fprintf(&report, "Time: %s\n", at.Format(time.RFC3339))
	fmt.Fprintf(&report, "Version: %s\n\n", GetFullVersion())

	fmt.Fprintf(&report, "=== PANIC VALUE ===\n%v\n\n", panicVal)
	fmt.Fprintf(&report, "=== STACK TRACE ===\n%s\n\n", stackTrace)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	fmt.Fprintf(&report, "=== RUNTIME ===\n")
	fmt.Fprintf(&report, "Goroutines: %d (SafeGo spawned: %d)\n", runtime.NumGoroutine(), GetGoroutineCount())
	fmt.Fprintf(&report, "GOOS/GOARCH: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&report, "Alloc: %d MB, Sys: %d MB, NumGC: %d\n\n", mem.Alloc/1024/1024, mem.Sys/1024/1024, mem.NumGC)

	fmt.Fprintf(&report, "=== ALL GOROUTINES ===\n%s\n", allGoroutineStacks())
	return report.Bytes()
}

// WriteCrashFile writes a crash report and returns its path, or "" when only stderr got it
func WriteCrashFile(panicVal interface{}, stackTrace string) string {
	now := time.Now()
	report := BuildCrashReport(panicVal, stackTrace, now)
	crashPath := filepath.Join(CrashLogDir, fmt.Sprintf("crash-%s.log", now.Format("2006-01-02T15-04-05")))

	if err := os.WriteFile(crashPath, report, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "CRASH: Failed to write crash file: %v\n%s", err, report)
		return ""
	}

	fmt.Fprintf(os.Stderr, "\n!!! FATAL CRASH - Report saved to: %s !!!\nPanic: %v\n", crashPath, panicVal)
	return crashPath
}

// RecoverWithCrashFile is deferred at the top of main: write a crash report, then exit 1
func RecoverWithCrashFile() {
	if r := recover(); r != nil {
		WriteCrashFile(r, GetStackTrace())
		os.Exit(1)
	}
}

// GetStackTrace returns the calling goroutine's stack
func GetStackTrace() string {
	return stackTrace(false)
}

func stackTrace(all bool) string {
	buf := make([]byte, 8192)
	for {
		n := runtime.Stack(buf, all)
		if n < len(buf) || len(buf) >= 16*1024*1024 {
			return string(buf[:n])
		}
		buf = make([]byte, len(buf)*2)
	}
}

func allGoroutineStacks() string {
	return stackTrace(true)
}
