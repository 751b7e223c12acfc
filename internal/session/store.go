package session

import (
	"bossbot/internal/common"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Store interface {
	// Load the stored session. A store with nothing in it
	// returns a new session
	Load() (Session, error)
	Save(session Session) error
}

// Session stored in a JSON file
type FileStore struct {
	database *common.Database
}

func NewFileStore(filename string) *FileStore {
	return &FileStore{common.NewDatabase(filename)}
}

func (store *FileStore) Load() (Session, error) {

	var session Session
	err := store.database.Load(&session)
	if errors.Is(err, common.ErrNoData) {
		log.Info().Msg("No stored session, starting with no session")
		return NewSession(), nil
	}
	if err != nil {
		return Session{}, common.Wrap(common.ValidationError, "could not load session", err)
	}

	if err := session.Validate(); err != nil {
		return Session{}, fmt.Errorf("stored session in %s: %w", store.database.Filename(), err)
	}
	log.Info().Msg(fmt.Sprintf("Loaded session in phase %s", session.Phase))
	return session, nil
}

func (store *FileStore) Save(session Session) error {
	return store.database.Save(session)
}
