package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// seedPrompts are inserted into an empty development database.
var seedPrompts = []struct {
	title   string
	content string
}{
	{"Summarize", "Summarize the following text in three sentences:\n\n{{text}}"},
	{"Code review", "Review the following code for bugs, readability and performance issues:\n\n{{code}}"},
	{"Translate", "Translate the following text into {{language}}, preserving tone and formatting:\n\n{{text}}"},
}

// Seed populates the database with example prompts for development.
// It is a no-op when the prompts table already has rows.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM prompts").Scan(&count); err != nil {
		return fmt.Errorf("seed check prompts: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	// Stagger timestamps so list order matches the slice order.
	base := time.Now().UTC().Truncate(time.Microsecond)
	for i, p := range seedPrompts {
		_, err := tx.Exec(`
			INSERT INTO prompts (id, title, content, created_at)
			VALUES ($1, $2, $3, $4)
		`, uuid.New(), p.title, p.content, base.Add(time.Duration(i)*time.Microsecond))
		if err != nil {
			return fmt.Errorf("seed insert prompt %q: %w", p.title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with example prompts", "count", len(seedPrompts))
	return nil
}
