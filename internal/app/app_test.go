package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/common"
	"github.com/ternarybob/officeflow/internal/services/llm"
)

func testConfig(t *testing.T) *common.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := common.NewDefaultConfig()
	cfg.Storage.DataDir = filepath.Join(dir, "data")
	cfg.Documents.OutputDir = filepath.Join(dir, "documents")
	cfg.Documents.TemplatesDir = filepath.Join(dir, "templates")
	cfg.Claude.APIKey = ""
	return cfg
}

func TestNew_WiresServices(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Documents.TemplatesDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Documents.TemplatesDir, "memo.yaml"), []byte("name: 메모\nlayout: checklist\n"), 0644))

	a, err := New(cfg, arbor.NewNoOpLogger())
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.LogService)
	assert.NotNil(t, a.ReminderService)
	assert.NotNil(t, a.DocumentService)
	assert.NotNil(t, a.SummaryService)
	assert.NotNil(t, a.AIHandler)

	assert.True(t, llm.IsTestMode(a.LLMService), "missing API key selects test mode")

	_, ok := a.TemplateRegistry.Get("memo")
	assert.True(t, ok, "custom templates are loaded from the templates dir")
	assert.FileExists(t, filepath.Join(cfg.Storage.DataDir, "logs.json"))
}

func TestNew_RejectsUnknownStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Type = "sqlite"

	_, err := New(cfg, arbor.NewNoOpLogger())
	assert.Error(t, err)
}

func TestStartScheduler(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Scheduler.Enabled = false

		a, err := New(cfg, arbor.NewNoOpLogger())
		require.NoError(t, err)
		defer a.Close()

		require.NoError(t, a.StartScheduler(context.Background()))
		assert.False(t, a.SchedulerService.IsRunning())
	})

	t.Run("enabled", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Scheduler.Enabled = true

		a, err := New(cfg, arbor.NewNoOpLogger())
		require.NoError(t, err)

		require.NoError(t, a.StartScheduler(context.Background()))
		assert.True(t, a.SchedulerService.IsRunning())

		require.NoError(t, a.Close())
		assert.False(t, a.SchedulerService.IsRunning())
	})
}
