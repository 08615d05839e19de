package hoststate

import (
	"io"

	"github.com/pkg/errors"

	"investment_contract/configuration"
	"investment_contract/sdk"
)

// Store is a host state backend that owns resources.
type Store interface {
	sdk.State
	io.Closer
}

// Open picks the backend named by cfg.Driver.
func Open(cfg configuration.Storage) (Store, error) {
	switch cfg.Driver {
	case configuration.DriverMemory, "":
		if cfg.Snapshot == "" {
			return NewMemoryState(), nil
		}
		return NewMemoryStateWithSnapshot(cfg.Snapshot)
	case configuration.DriverSQLite:
		return OpenSQLite(cfg.Path, cfg.CacheSize)
	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
