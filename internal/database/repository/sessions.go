package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"termtabs/internal/term"
)

// SessionRepo persists terminal session records. It implements
// term.SessionStore.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) SaveInstance(ctx context.Context, rec term.SessionRecord) error {
	args, err := json.Marshal(rec.Args)
	if err != nil {
		return fmt.Errorf("encode args: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO sessions(id, title, icon, color, shell, args, cwd, shell_type, group_id, group_pos, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 title=excluded.title,
	 icon=excluded.icon,
	 color=excluded.color,
	 group_id=excluded.group_id,
	 group_pos=excluded.group_pos,
	 updated_at=CURRENT_TIMESTAMP;
	`, rec.ID, rec.Title, rec.Icon, rec.Color, rec.Shell, string(args), rec.Cwd, rec.Type, rec.GroupID, rec.GroupPos)
	return err
}

func (r *SessionRepo) DeleteInstance(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

func (r *SessionRepo) ListInstances(ctx context.Context) ([]term.SessionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, title, icon, color, shell, args, cwd, shell_type, group_id, group_pos
	FROM sessions ORDER BY created_at, group_id, group_pos`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []term.SessionRecord
	for rows.Next() {
		var rec term.SessionRecord
		var args string
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Icon, &rec.Color, &rec.Shell, &args, &rec.Cwd, &rec.Type, &rec.GroupID, &rec.GroupPos); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(args), &rec.Args); err != nil {
			return nil, fmt.Errorf("decode args for %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
