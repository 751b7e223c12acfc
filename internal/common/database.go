package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrNoData is returned when the database file does not exist yet
var ErrNoData = errors.New("no data stored")

// A flat JSON file holding one value.
// Writes go to a temporary file in the same directory that is then
// renamed over the destination
type Database struct {
	filename string
	mu       sync.Mutex
}

func NewDatabase(filename string) *Database {
	return &Database{filename: filename}
}

func (db *Database) Filename() string {
	return db.filename
}

// Load decodes the file into target. Returns ErrNoData if the
// file does not exist
func (db *Database) Load(target any) error {

	db.mu.Lock()
	defer db.mu.Unlock()

	data, err := os.ReadFile(db.filename)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Msg(fmt.Sprintf("Database file %s does not exist", db.filename))
		return ErrNoData
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", db.filename, err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s: %w", db.filename, err)
	}
	log.Debug().Msg(fmt.Sprintf("Loaded database file %s", db.filename))
	return nil
}

// Save encodes value and replaces the file contents
func (db *Database) Save(value any) error {

	db.mu.Lock()
	defer db.mu.Unlock()

	data, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", db.filename, err)
	}

	dir := filepath.Dir(db.filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(db.filename)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, db.filename); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", db.filename, err)
	}

	log.Debug().Msg(fmt.Sprintf("Wrote database file %s", db.filename))
	return nil
}
