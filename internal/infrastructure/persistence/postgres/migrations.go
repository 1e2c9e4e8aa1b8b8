// Package postgres implements the PostgreSQL persistence layer for the
// CampusPulse risk engine.
package postgres

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_behavioral_core",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_alerts_and_overrides",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_planner",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: BEHAVIORAL CORE
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: daily logs, baselines, risk scores
-- Version: 001

-- One self-report per user per calendar day. A same-day resubmission
-- replaces the row via the (user_id, day) unique constraint.
CREATE TABLE IF NOT EXISTS daily_logs (
    id UUID PRIMARY KEY,
    user_id VARCHAR(128) NOT NULL,
    day DATE NOT NULL,
    stress SMALLINT NOT NULL,
    sleep SMALLINT NOT NULL,
    mood SMALLINT NOT NULL,
    workload SMALLINT NOT NULL,
    nutrition SMALLINT NOT NULL,
    note TEXT NOT NULL DEFAULT '',
    submitted_at TIMESTAMP WITH TIME ZONE NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    UNIQUE (user_id, day),

    CONSTRAINT valid_stress CHECK (stress BETWEEN 1 AND 5),
    CONSTRAINT valid_sleep CHECK (sleep BETWEEN 1 AND 5),
    CONSTRAINT valid_mood CHECK (mood BETWEEN 1 AND 5),
    CONSTRAINT valid_workload CHECK (workload BETWEEN 1 AND 5),
    CONSTRAINT valid_nutrition CHECK (nutrition BETWEEN 1 AND 5)
);

CREATE INDEX IF NOT EXISTS idx_daily_logs_user_submitted ON daily_logs(user_id, submitted_at DESC);
CREATE INDEX IF NOT EXISTS idx_daily_logs_day ON daily_logs(day);

-- One baseline per user, ever. The primary key is the first-write-wins
-- guard: concurrent creations collapse to a single surviving row through
-- INSERT .. ON CONFLICT DO NOTHING.
CREATE TABLE IF NOT EXISTS baselines (
    user_id VARCHAR(128) PRIMARY KEY,
    stress DOUBLE PRECISION NOT NULL,
    sleep DOUBLE PRECISION NOT NULL,
    mood DOUBLE PRECISION NOT NULL,
    workload DOUBLE PRECISION NOT NULL,
    nutrition DOUBLE PRECISION NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL,

    CONSTRAINT baseline_stress_range CHECK (stress BETWEEN 0 AND 1),
    CONSTRAINT baseline_sleep_range CHECK (sleep BETWEEN 0 AND 1),
    CONSTRAINT baseline_mood_range CHECK (mood BETWEEN 0 AND 1),
    CONSTRAINT baseline_workload_range CHECK (workload BETWEEN 0 AND 1),
    CONSTRAINT baseline_nutrition_range CHECK (nutrition BETWEEN 0 AND 1)
);

-- Append-only risk score history. Rows are never updated or deleted;
-- trend reads take the newest three by timestamp.
CREATE TABLE IF NOT EXISTS risk_scores (
    id UUID PRIMARY KEY,
    user_id VARCHAR(128) NOT NULL,
    risk_score DOUBLE PRECISION NOT NULL,
    risk_level VARCHAR(16) NOT NULL,
    recovery_status VARCHAR(16) NOT NULL,
    acceleration_status VARCHAR(32) NOT NULL,
    stress_velocity DOUBLE PRECISION NOT NULL,
    behavioral_state VARCHAR(64) NOT NULL,
    flags JSONB NOT NULL DEFAULT '[]'::jsonb,
    insight TEXT NOT NULL DEFAULT '',
    preventive_measures JSONB NOT NULL DEFAULT '[]'::jsonb,
    recorded_at TIMESTAMP WITH TIME ZONE NOT NULL,

    CONSTRAINT valid_risk_score CHECK (risk_score BETWEEN 0 AND 1),
    CONSTRAINT valid_risk_level CHECK (risk_level IN ('Low', 'Moderate', 'High')),
    CONSTRAINT valid_stress_velocity CHECK (stress_velocity BETWEEN -1 AND 1)
);

CREATE INDEX IF NOT EXISTS idx_risk_scores_user_recorded ON risk_scores(user_id, recorded_at DESC);
`

const migration001Down = `
DROP TABLE IF EXISTS risk_scores;
DROP TABLE IF EXISTS baselines;
DROP TABLE IF EXISTS daily_logs;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: ALERTS AND OVERRIDES
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: counselor alerts and risk level overrides
-- Version: 002

CREATE TABLE IF NOT EXISTS alerts (
    id UUID PRIMARY KEY,
    user_id VARCHAR(128) NOT NULL,
    alert_type VARCHAR(32) NOT NULL DEFAULT 'mental_health_risk',
    assessment_id UUID,
    resolved BOOLEAN NOT NULL DEFAULT FALSE,
    resolved_by VARCHAR(128) NOT NULL DEFAULT '',
    resolved_at TIMESTAMP WITH TIME ZONE,
    raised_at TIMESTAMP WITH TIME ZONE NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_alerts_user_raised ON alerts(user_id, raised_at DESC);
CREATE INDEX IF NOT EXISTS idx_alerts_unresolved ON alerts(user_id) WHERE resolved = FALSE;

-- Counselor overrides are audit rows; assessments stay untouched.
CREATE TABLE IF NOT EXISTS risk_overrides (
    id UUID PRIMARY KEY,
    user_id VARCHAR(128) NOT NULL,
    overridden_level VARCHAR(16) NOT NULL,
    counselor_id VARCHAR(128) NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL,

    CONSTRAINT valid_overridden_level CHECK (overridden_level IN ('Low', 'Moderate', 'High'))
);

CREATE INDEX IF NOT EXISTS idx_risk_overrides_user ON risk_overrides(user_id, created_at DESC);
`

const migration002Down = `
DROP TABLE IF EXISTS risk_overrides;
DROP TABLE IF EXISTS alerts;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: PLANNER
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: planner tasks and deadlines
-- Version: 003

CREATE TABLE IF NOT EXISTS planner_tasks (
    id UUID PRIMARY KEY,
    user_id VARCHAR(128) NOT NULL,
    title VARCHAR(200) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    due TIMESTAMP WITH TIME ZONE NOT NULL,
    reminder_time VARCHAR(5) NOT NULL DEFAULT '',
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_planner_tasks_user_due ON planner_tasks(user_id, due ASC) WHERE completed = FALSE;

CREATE TABLE IF NOT EXISTS deadlines (
    id UUID PRIMARY KEY,
    user_id VARCHAR(128) NOT NULL,
    title VARCHAR(200) NOT NULL,
    course VARCHAR(50) NOT NULL DEFAULT '',
    due_date TIMESTAMP WITH TIME ZONE NOT NULL,
    deadline_type VARCHAR(20) NOT NULL DEFAULT 'assignment',
    priority VARCHAR(10) NOT NULL DEFAULT 'medium',

    CONSTRAINT valid_deadline_type CHECK (deadline_type IN ('assignment', 'exam', 'project')),
    CONSTRAINT valid_priority CHECK (priority IN ('low', 'medium', 'high'))
);

CREATE INDEX IF NOT EXISTS idx_deadlines_user_date ON deadlines(user_id, due_date ASC);
`

const migration003Down = `
DROP TABLE IF EXISTS deadlines;
DROP TABLE IF EXISTS planner_tasks;
`
