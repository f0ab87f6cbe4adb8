package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
// Each migration should be idempotent (safe to run multiple times).
var migrationsSQL = map[int]string{
	1: migrationV1SimulationRuns,
	2: migrationV2RecentIndex,
}

// migrationV1SimulationRuns creates the run cache.
//
//  1. ONE ROW PER QUERY
//     - simulation_runs is keyed by (day, month, year, through_year)
//     - A query is simulated once; later requests read the stored rows
//
//  2. OCCURRENCES ARE THE REPORTED ROWS
//     - Each row holds both calendar dates and the weekday name as printed
//     - sequence is the simulated day number, unique within a run
const migrationV1SimulationRuns = `
-- Migration 001: simulation run cache

CREATE TABLE IF NOT EXISTS simulation_runs (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    query_day      INTEGER NOT NULL,
    query_month    INTEGER NOT NULL,
    query_year     INTEGER NOT NULL,
    through_year   INTEGER NOT NULL DEFAULT 0,
    days_simulated INTEGER NOT NULL,
    match_count    INTEGER NOT NULL,
    created_at     TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE (query_day, query_month, query_year, through_year)
);

CREATE TABLE IF NOT EXISTS occurrences (
    run_id          INTEGER NOT NULL REFERENCES simulation_runs(id) ON DELETE CASCADE,
    sequence        INTEGER NOT NULL,
    julian_day      INTEGER NOT NULL,
    julian_month    INTEGER NOT NULL,
    julian_year     INTEGER NOT NULL,
    gregorian_day   INTEGER NOT NULL,
    gregorian_month INTEGER NOT NULL,
    gregorian_year  INTEGER NOT NULL,
    weekday         TEXT NOT NULL,

    PRIMARY KEY (run_id, sequence)
);
`

// migrationV2RecentIndex supports the recent runs listing.
const migrationV2RecentIndex = `
-- Migration 002: recent runs index

CREATE INDEX IF NOT EXISTS idx_simulation_runs_created
    ON simulation_runs(created_at DESC, id DESC);
`
