package sink

import (
	"github.com/bsm/sktable"
	"github.com/dgraph-io/badger"
)

// Badger writes rows into a Badger database under SchemaKey and RowKey.
type Badger struct {
	db *badger.DB

	// BatchSize is the number of rows per update transaction.
	// Default: 1000.
	BatchSize int
}

// NewBadger opens (or creates) a database in dir.
func NewBadger(dir string) (*Badger, error) {
	opts := badger.DefaultOptions
	opts.Dir = dir
	opts.ValueDir = dir

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Badger{db: db, BatchSize: defaultBatchSize}, nil
}

// DB exposes the underlying database.
func (s *Badger) DB() *badger.DB { return s.db }

// WriteTable implements sktable.Sink.
func (s *Badger) WriteTable(name string, rows sktable.RowStream) error {
	batchSize := s.BatchSize
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}

	cols := rows.Columns()
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(SchemaKey(name), EncodeColumns(nil, cols))
	}); err != nil {
		return err
	}

	var n uint64
	for more := true; more; {
		err := s.db.Update(func(txn *badger.Txn) error {
			for i := 0; i < batchSize; i++ {
				if !rows.Next() {
					more = false
					return nil
				}

				val, err := EncodeRow(nil, cols, rows.Row())
				if err != nil {
					return err
				}
				if err := txn.Set(RowKey(name, n), val); err != nil {
					return err
				}
				n++
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return rows.Err()
}

// Close closes the database.
func (s *Badger) Close() error { return s.db.Close() }
