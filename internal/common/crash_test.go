package common

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCrashReport(t *testing.T) {
	at := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	report := string(BuildCrashReport("nil map write", "main.main()\n\tmain.go:10", at))

	assert.True(t, strings.HasPrefix(report, "=== OFFICEFLOW CRASH REPORT ==="))
	assert.Contains(t, report, "Time: 2025-05-01T09:00:00Z")
	assert.Contains(t, report, "nil map write")
	assert.Contains(t, report, "main.go:10")
	assert.Contains(t, report, "=== ALL GOROUTINES ===")
}

func TestWriteCrashFile(t *testing.T) {
	dir := t.TempDir()
	prev := CrashLogDir
	t.Cleanup(func() { CrashLogDir = prev })

	InstallCrashHandler(dir)
	path := WriteCrashFile("boom", "stack")
	require.NotEmpty(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "boom")
}
