package postgres

// schema is applied in order on Open.
var schema = []string{
	createMatchReferencesSQL,
	createMatchReferencesIndexSQL,
	createStaticSyncSQL,
	createLogTableSQL,
}

const createMatchReferencesSQL = `
CREATE TABLE IF NOT EXISTS match_references (
    account_id bigint NOT NULL,
    platform_id text NOT NULL,
    game_id bigint NOT NULL,
    champion int NOT NULL,
    queue int NOT NULL,
    season int NOT NULL,
    created_ms bigint NOT NULL,
    role text NOT NULL DEFAULT '',
    lane text NOT NULL DEFAULT '',
    data jsonb NOT NULL,
    fetched_at timestamptz NOT NULL,
    PRIMARY KEY (account_id, platform_id, game_id)
)`

const createMatchReferencesIndexSQL = `
CREATE INDEX IF NOT EXISTS match_references_history_idx
ON match_references (account_id, platform_id, created_ms)`

const createStaticSyncSQL = `
CREATE TABLE IF NOT EXISTS static_sync (
    version text NOT NULL,
    locale text NOT NULL,
    champions int NOT NULL,
    items int NOT NULL,
    summoner_spells int NOT NULL,
    runes int NOT NULL,
    maps int NOT NULL,
    profile_icons int NOT NULL,
    fetched_at timestamptz NOT NULL,
    PRIMARY KEY (version, locale)
)`

const createLogTableSQL = `
CREATE TABLE IF NOT EXISTS datastore_logs (
    id bigserial PRIMARY KEY,
    logged_at timestamptz NOT NULL,
    level text NOT NULL,
    message text NOT NULL,
    attrs jsonb NOT NULL DEFAULT '{}'::jsonb
)`
