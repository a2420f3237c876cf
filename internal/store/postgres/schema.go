package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Requires PostgreSQL 13+ for gen_random_uuid().
const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
	id            uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	username      text NOT NULL,
	email         text NOT NULL,
	password_hash text NOT NULL,
	image_file    text NOT NULL DEFAULT '',
	gender        text NOT NULL DEFAULT '',
	dob           date,
	job           text NOT NULL DEFAULT '',
	home          text NOT NULL DEFAULT '',
	last_studies  text NOT NULL DEFAULT '',
	friends       integer NOT NULL DEFAULT 0,
	created_at    timestamptz NOT NULL DEFAULT now(),
	updated_at    timestamptz NOT NULL DEFAULT now(),
	last_login_at timestamptz,
	CONSTRAINT users_email_uq UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS sessions (
	id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id    uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at timestamptz NOT NULL DEFAULT now(),
	expires_at timestamptz NOT NULL,
	revoked_at timestamptz,
	ip         text,
	user_agent text
);

CREATE TABLE IF NOT EXISTS friendships (
	id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	user1_id   uuid NOT NULL REFERENCES users(id),
	user2_id   uuid NOT NULL REFERENCES users(id),
	status     smallint NOT NULL DEFAULT 0,
	created_at timestamptz NOT NULL DEFAULT now(),
	CONSTRAINT friendships_no_self_ck CHECK (user1_id <> user2_id),
	CONSTRAINT friendships_pair_uq UNIQUE (user1_id, user2_id)
);

CREATE TABLE IF NOT EXISTS posts (
	id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id    uuid NOT NULL REFERENCES users(id),
	content    text NOT NULL,
	image      text,
	created_at timestamptz NOT NULL DEFAULT now(),
	CONSTRAINT posts_content_len_ck CHECK (char_length(content) BETWEEN 1 AND 1000)
);

CREATE INDEX IF NOT EXISTS friendships_user2_status_ix ON friendships (user2_id, status);
CREATE INDEX IF NOT EXISTS posts_created_at_ix ON posts (created_at DESC);
`

// EnsureSchema creates the tables on startup when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
