package db

import "database/sql"

func Migrate(db *sql.DB) {
	db.Exec(`
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		coins INTEGER NOT NULL DEFAULT 0,
		last_reward_spin INTEGER
	);`)

	db.Exec(`
	CREATE TABLE IF NOT EXISTS game_sessions (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);`)

	db.Exec(`
	CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_user_kind
	ON game_sessions(user_id, kind);`)

	db.Exec(`
	CREATE TABLE IF NOT EXISTS lottery_tickets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		draw_date TEXT NOT NULL,
		chosen_numbers TEXT NOT NULL,
		UNIQUE(user_id, draw_date)
	);`)

	db.Exec(`
	CREATE TABLE IF NOT EXISTS lottery_draws (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		draw_date TEXT NOT NULL UNIQUE,
		winning_numbers TEXT NOT NULL
	);`)

	db.Exec(`
	CREATE TABLE IF NOT EXISTS game_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ref TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		game_type TEXT NOT NULL,
		bet_details TEXT NOT NULL,
		result TEXT NOT NULL,
		payout INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);`)
}
