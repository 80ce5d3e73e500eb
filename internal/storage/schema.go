package storage

import "fmt"

// dmColumns is the shared column list, in insert order.
const dmColumns = `id, user_id, platform, sender_username, sender_name, message_text, message_id, conversation_id, "timestamp", status, created_at`

func sqliteSchema(table string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
  id              TEXT PRIMARY KEY,
  user_id         TEXT NOT NULL,
  platform        TEXT NOT NULL,
  sender_username TEXT NOT NULL,
  sender_name     TEXT,
  message_text    TEXT NOT NULL,
  message_id      TEXT,
  conversation_id TEXT,
  "timestamp"     TEXT NOT NULL,
  status          TEXT NOT NULL DEFAULT 'new',
  created_at      TEXT NOT NULL
);`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_user_id_idx ON %[1]s(user_id);`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_status_created_at_idx ON %[1]s(status, created_at);`, table),
	}
}

func postgresSchema(table string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
  id              uuid PRIMARY KEY,
  user_id         text NOT NULL,
  platform        text NOT NULL,
  sender_username text NOT NULL,
  sender_name     text,
  message_text    text NOT NULL,
  message_id      text,
  conversation_id text,
  "timestamp"     timestamptz NOT NULL,
  status          text NOT NULL DEFAULT 'new',
  created_at      timestamptz NOT NULL DEFAULT now()
);`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_user_id_idx ON %[1]s(user_id);`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_status_created_at_idx ON %[1]s(status, created_at);`, table),
	}
}
