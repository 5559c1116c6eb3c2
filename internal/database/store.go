package database

import (
	"github.com/jmoiron/sqlx"

	"github.com/example/vocabdrill/internal/drill"
)

// Store bundles the repositories behind the drill store interfaces
type Store struct {
	*WordRepository
	*WordProgressRepository
	*StatisticsRepository
	*GrammarRepository
	*GrammarProgressRepository
	*UserRepository

	db *sqlx.DB
}

var (
	_ drill.WordStore    = (*Store)(nil)
	_ drill.GrammarStore = (*Store)(nil)
	_ drill.UserStore    = (*Store)(nil)
)

// NewStore wires every repository to db
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		WordRepository:            NewWordRepository(db),
		WordProgressRepository:    NewWordProgressRepository(db),
		StatisticsRepository:      NewStatisticsRepository(db),
		GrammarRepository:         NewGrammarRepository(db),
		GrammarProgressRepository: NewGrammarProgressRepository(db),
		UserRepository:            NewUserRepository(db),
		db:                        db,
	}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
