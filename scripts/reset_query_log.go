package main

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Drops the query log table so the server recreates it on next startup.
// Usage: go run scripts/reset_query_log.go
func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	if _, err := db.Exec(`DROP TABLE IF EXISTS search_queries CASCADE;`); err != nil {
		log.Fatalf("Failed to drop search_queries: %v", err)
	}

	log.Println("Dropped search_queries; restart the server to recreate the schema.")
}
