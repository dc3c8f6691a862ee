package eventdb

// schema is the fixed table set applied to every newly provisioned event
// database. Statements are idempotent so a partially applied schema can be
// re-run, although provisioning never reuses a partially built file.
const schema = `
CREATE TABLE IF NOT EXISTS teams (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    number INTEGER NOT NULL UNIQUE,
    name TEXT NOT NULL,
    organization TEXT,
    city TEXT,
    state TEXT,
    country TEXT,
    added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS match_schedule (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    match_number INTEGER NOT NULL,
    tournament_level TEXT NOT NULL DEFAULT 'QUALIFICATION',
    field INTEGER NOT NULL DEFAULT 1,
    start_time TIMESTAMP,
    red1 INTEGER,
    red2 INTEGER,
    blue1 INTEGER,
    blue2 INTEGER,
    UNIQUE (tournament_level, match_number)
);

CREATE INDEX IF NOT EXISTS idx_match_schedule_start
    ON match_schedule(start_time);

CREATE TABLE IF NOT EXISTS match_results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    match_id INTEGER NOT NULL REFERENCES match_schedule(id) ON DELETE CASCADE,
    red_score INTEGER NOT NULL DEFAULT 0,
    blue_score INTEGER NOT NULL DEFAULT 0,
    red_penalty INTEGER NOT NULL DEFAULT 0,
    blue_penalty INTEGER NOT NULL DEFAULT 0,
    completed_at TIMESTAMP,
    UNIQUE (match_id)
);

CREATE TABLE IF NOT EXISTS scores (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    match_id INTEGER NOT NULL REFERENCES match_schedule(id) ON DELETE CASCADE,
    alliance TEXT NOT NULL CHECK (alliance IN ('RED', 'BLUE')),
    phase TEXT NOT NULL DEFAULT 'TELEOP',
    detail TEXT NOT NULL DEFAULT '{}',
    recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_scores_match ON scores(match_id);

CREATE TABLE IF NOT EXISTS rankings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    team_number INTEGER NOT NULL UNIQUE,
    rank INTEGER NOT NULL,
    ranking_points REAL NOT NULL DEFAULT 0,
    tiebreaker1 REAL NOT NULL DEFAULT 0,
    tiebreaker2 REAL NOT NULL DEFAULT 0,
    matches_played INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS awards (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    series INTEGER NOT NULL DEFAULT 1,
    team_number INTEGER,
    recipient TEXT
);
`
