package main

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var db *sql.DB

func initDB() {
	// Get database URL from environment variable, fallback to default for development
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		connStr = "user=admin password=password dbname=sparkmatchdb sslmode=disable"
		log.Default().Println("Warning: DATABASE_URL not set, using default connection string")
	}

	var err error
	db, err = sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Error connecting to the database:", err)
	}
	err = db.Ping()
	if err != nil {
		log.Fatal("Cannot reach the database:", err)
	}
	log.Default().Println("Database connection established successfully")

	if err := ensureSchema(db); err != nil {
		log.Fatal("Error creating database schema:", err)
	}
}

// ensureSchema creates the tables on first start. The two uniqueness
// constraints (ordered pair on swipes, canonical pair on matches) are the
// anchor of the whole swipe/match correctness story; everything else is
// ordinary relational storage.
func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            SERIAL PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_online   TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS profiles (
			user_id           INT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			name              TEXT NOT NULL,
			bio               TEXT,
			age               INT NOT NULL CHECK (age >= 18),
			gender            TEXT NOT NULL CHECK (gender IN ('male', 'female', 'other')),
			gender_preference TEXT NOT NULL CHECK (gender_preference IN ('male', 'female', 'both')),
			image_url         TEXT,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS swipes (
			actor_id   INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			target_id  INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			decision   TEXT NOT NULL CHECK (decision IN ('like', 'dislike')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (actor_id <> target_id),
			UNIQUE (actor_id, target_id)
		);

		CREATE TABLE IF NOT EXISTS matches (
			id         TEXT PRIMARY KEY,
			user_lo    INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user_hi    INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (user_lo < user_hi),
			UNIQUE (user_lo, user_hi)
		);

		CREATE TABLE IF NOT EXISTS messages (
			id           BIGSERIAL PRIMARY KEY,
			sender_id    INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			recipient_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content      TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_read      BOOLEAN NOT NULL DEFAULT FALSE
		);
	`)
	return err
}
