package storage

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// Storage drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the Store for driver. File stores live on fsys; postgres
// stores connect to dsn. The closer releases whatever Open acquired.
func Open(driver, dsn string, fsys afero.Fs) (Store, io.Closer, error) {
	switch driver {
	case "", DriverFile:
		return NewAferoStore(fsys), nopCloser{}, nil
	case DriverPostgres:
		if dsn == "" {
			return nil, nil, fmt.Errorf("storage driver %q needs DATABASE_URL", driver)
		}
		db, err := OpenPostgres(dsn)
		if err != nil {
			return nil, nil, err
		}
		store, err := NewGormStore(db)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
