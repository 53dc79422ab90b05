package jsonfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/interfaces"
)

const (
	LogsFile            = "logs.json"
	RemindersFile       = "reminders.json"
	DocumentHistoryFile = "documents-history.json"
)

// Manager implements the StorageManager interface over flat JSON files in one directory
type Manager struct {
	dataDir  string
	logs     *LogStorage
	reminder *ReminderStorage
	history  *DocumentHistoryStorage
	logger   arbor.ILogger
}

// NewManager creates the JSON file stores under dataDir. Missing files are created empty.
func NewManager(logger arbor.ILogger, dataDir string) (*Manager, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}

	manager := &Manager{
		dataDir:  dataDir,
		logs:     NewLogStorage(filepath.Join(dataDir, LogsFile), logger),
		reminder: NewReminderStorage(filepath.Join(dataDir, RemindersFile), logger),
		history:  NewDocumentHistoryStorage(filepath.Join(dataDir, DocumentHistoryFile), logger),
		logger:   logger,
	}

	for _, ensure := range []func() error{manager.logs.file.ensure, manager.reminder.file.ensure, manager.history.file.ensure} {
		if err := ensure(); err != nil {
			return nil, fmt.Errorf("failed to initialise store file: %w", err)
		}
	}

	logger.Info().Str("data_dir", dataDir).Msg("JSON file storage manager initialized")

	return manager, nil
}

var _ interfaces.StorageManager = (*Manager)(nil)

// LogStorage returns the Log storage interface
func (m *Manager) LogStorage() interfaces.LogStorage {
	return m.logs
}

// ReminderStorage returns the Reminder storage interface
func (m *Manager) ReminderStorage() interfaces.ReminderStorage {
	return m.reminder
}

// DocumentHistoryStorage returns the Document history storage interface
func (m *Manager) DocumentHistoryStorage() interfaces.DocumentHistoryStorage {
	return m.history
}

// Close is a no-op; every write is already durable
func (m *Manager) Close() error {
	return nil
}
