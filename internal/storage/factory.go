package storage

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/common"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/storage/badger"
	"github.com/ternarybob/officeflow/internal/storage/jsonfile"
)

// NewStorageManager creates a new storage manager based on config
func NewStorageManager(logger arbor.ILogger, config *common.Config) (interfaces.StorageManager, error) {
	switch config.Storage.Type {
	case "", "json":
		return jsonfile.NewManager(logger, config.Storage.DataDir)
	case "badger":
		return badger.NewManager(logger, &config.Storage.Badger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s (expected 'json' or 'badger')", config.Storage.Type)
	}
}
