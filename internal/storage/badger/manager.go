package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/common"
	"github.com/ternarybob/officeflow/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db       *BadgerDB
	logs     interfaces.LogStorage
	reminder interfaces.ReminderStorage
	history  interfaces.DocumentHistoryStorage
	logger   arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:       db,
		logs:     NewLogStorage(db, logger),
		reminder: NewReminderStorage(db, logger),
		history:  NewDocumentHistoryStorage(db, logger),
		logger:   logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

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

// Close closes the storage manager
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
