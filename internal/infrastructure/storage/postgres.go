package storage

import (
	_ "github.com/lib/pq" // PostgreSQL driver
)

// Postgres - диалект PostgreSQL (lib/pq).
var Postgres = Dialect{
	Name:         "postgres",
	Driver:       "postgres",
	NumberedArgs: true,
	Schema: `
	CREATE TABLE IF NOT EXISTS game_saves (
		id SERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		save_name TEXT NOT NULL,
		dungeon_level INTEGER NOT NULL DEFAULT 1,
		player_position JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL
	);

	CREATE INDEX IF NOT EXISTS game_saves_user_idx ON game_saves (user_id, updated_at DESC);

	CREATE TABLE IF NOT EXISTS characters (
		id SERIAL PRIMARY KEY,
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
		stats JSONB NOT NULL,
		equipment JSONB,
		is_active BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS inventory (
		id SERIAL PRIMARY KEY,
		save_id INTEGER NOT NULL UNIQUE REFERENCES game_saves(id),
		items JSONB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS dungeon_state (
		id SERIAL PRIMARY KEY,
		save_id INTEGER NOT NULL UNIQUE REFERENCES game_saves(id),
		dungeon_data JSONB NOT NULL,
		explored_rooms JSONB
	);
	`,
}
