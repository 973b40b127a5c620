package db

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

func Init(path string) *sql.DB {
	// immediate txlock so a read-modify-write of a session row serializes
	// against concurrent writers from the start of the transaction
	db, _ := sql.Open("sqlite3", path+"?_journal_mode=WAL&_txlock=immediate")
	Migrate(db)
	return db
}
