package storage

import "github.com/josiasmanzur02/sevenminutes/internal"

func NewStateRepository(backend, stateFile, dsn string, logger internal.Logger) (StateRepository, error) {
	if backend == "postgres" {
		return NewPostgresStore(dsn, logger)
	}
	return NewFileStore(stateFile, logger)
}
