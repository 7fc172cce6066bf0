package storage

import (
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLite - диалект SQLite (mattn/go-sqlite3). Подходит для одиночного сервера и тестов.
var SQLite = Dialect{
	Name:   "sqlite",
	Driver: "sqlite3",
	Schema: `
	CREATE TABLE IF NOT EXISTS game_saves (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		save_name TEXT NOT NULL,
		dungeon_level INTEGER NOT NULL DEFAULT 1,
		player_position TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS game_saves_user_idx ON game_saves (user_id, updated_at DESC);

	CREATE TABLE IF NOT EXISTS characters (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		save_id INTEGER NOT NULL REFERENCES game_saves(id),
		slot INTEGER NOT NULL,
		character_id TEXT NOT NULL,
		name TEXT NOT NULL,
		class TEXT NOT NULL,
		level INTEGER NOT NULL DEFAULT 1,
		health INTEGER NOT NULL,
		max_health INTEGER NOT NULL,
		mana INTEGER NOT NULL,
		max_mana INTEGER NOT NULL,
		experience INTEGER NOT NULL DEFAULT 0,
		experience_to_next INTEGER NOT NULL,
		stats TEXT NOT NULL,
		equipment TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS inventory (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		save_id INTEGER NOT NULL UNIQUE REFERENCES game_saves(id),
		items TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS dungeon_state (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		save_id INTEGER NOT NULL UNIQUE REFERENCES game_saves(id),
		dungeon_data TEXT NOT NULL,
		explored_rooms TEXT
	);
	`,
}
