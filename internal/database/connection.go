package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. DB_TYPE selects the
// backend: "sqlite" (default) stores a file under the data directory,
// "postgres" connects to DATABASE_URL.
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	switch dbType {
	case "sqlite":
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}

		dbPath := filepath.Join(dataDir, "deutschbot.db")
		db, err := sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}

		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		DB = db

	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
		DB = db

	default:
		return fmt.Errorf("unsupported DB_TYPE: %s", dbType)
	}

	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS user_settings (
			chat_id BIGINT PRIMARY KEY,
			settings TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create user_settings table: %v", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS progress_stats (
			chat_id BIGINT PRIMARY KEY,
			messages_sent INTEGER DEFAULT 0,
			words_learned INTEGER DEFAULT 0,
			corrections_made INTEGER DEFAULT 0,
			grammar_exercises_completed INTEGER DEFAULT 0,
			daily_streak INTEGER DEFAULT 0,
			total_points INTEGER DEFAULT 0,
			level INTEGER DEFAULT 1,
			achievements TEXT DEFAULT '[]',
			last_activity TEXT DEFAULT ''
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create progress_stats table: %v", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS vocabulary_entries (
			chat_id BIGINT NOT NULL,
			german TEXT NOT NULL,
			english TEXT NOT NULL,
			date_learned TEXT NOT NULL,
			difficulty TEXT DEFAULT '',
			topic TEXT DEFAULT '',
			times_seen INTEGER DEFAULT 1,
			mastery_level TEXT DEFAULT 'Learning',
			position INTEGER NOT NULL,
			PRIMARY KEY (chat_id, german)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create vocabulary_entries table: %v", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS daily_challenges (
			chat_id BIGINT NOT NULL,
			idx INTEGER NOT NULL,
			challenge_date TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT DEFAULT '',
			target INTEGER NOT NULL,
			progress INTEGER DEFAULT 0,
			points INTEGER NOT NULL,
			PRIMARY KEY (chat_id, idx)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create daily_challenges table: %v", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS conversation_messages (
			chat_id BIGINT NOT NULL,
			position INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (chat_id, position)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create conversation_messages table: %v", err)
	}

	return nil
}
