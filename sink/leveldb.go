package sink

import (
	"github.com/bsm/sktable"
	"github.com/syndtr/goleveldb/leveldb"
)

const defaultBatchSize = 1000

// LevelDB writes rows into a LevelDB database under SchemaKey and RowKey.
type LevelDB struct {
	db *leveldb.DB

	// BatchSize is the number of rows per write batch.
	// Default: 1000.
	BatchSize int
}

// NewLevelDB opens (or creates) a database at path.
func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db, BatchSize: defaultBatchSize}, nil
}

// DB exposes the underlying database.
func (s *LevelDB) DB() *leveldb.DB { return s.db }

// WriteTable implements sktable.Sink.
func (s *LevelDB) WriteTable(name string, rows sktable.RowStream) error {
	batchSize := s.BatchSize
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}

	cols := rows.Columns()
	if err := s.db.Put(SchemaKey(name), EncodeColumns(nil, cols), nil); err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	for n := uint64(0); rows.Next(); n++ {
		val, err := EncodeRow(nil, cols, rows.Row())
		if err != nil {
			return err
		}
		batch.Put(RowKey(name, n), val)

		if batch.Len() >= batchSize {
			if err := s.db.Write(batch, nil); err != nil {
				return err
			}
			batch.Reset()
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return s.db.Write(batch, nil)
}

// Close closes the database.
func (s *LevelDB) Close() error { return s.db.Close() }
