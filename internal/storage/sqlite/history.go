package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/testhr/llamagate/internal/core"
	"github.com/testhr/llamagate/pkg/log"
)

// History is the durable, append-only conversation log.
type History struct {
	db *sql.DB
}

func NewHistory(db *sql.DB) *History {
	return &History{db: db}
}

func (h *History) Append(ctx context.Context, t core.Turn) error {
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}
	if t.Day == "" {
		t.Day = t.Timestamp.Format(core.DayFormat)
	}

	query := `INSERT INTO chat_history (session_id, timestamp, day, user_input, model_response) VALUES (?, ?, ?, ?, ?)`
	_, err := h.db.ExecContext(ctx, query,
		t.SessionID, t.Timestamp.Format(time.RFC3339Nano), t.Day, t.Input, t.Output)
	if err != nil {
		return &core.StorageError{Op: "append turn", Err: err}
	}
	return nil
}

// BySession returns the session's most recent turns, newest-first. A
// non-positive limit returns everything.
func (h *History) BySession(ctx context.Context, sessionID string, limit int) ([]core.Turn, error) {
	if limit <= 0 {
		limit = -1 // sqlite treats LIMIT -1 as unlimited
	}
	query := `SELECT session_id, timestamp, day, user_input, model_response
		FROM chat_history WHERE session_id = ? ORDER BY timestamp DESC LIMIT ?`

	rows, err := h.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, &core.StorageError{Op: "query session history", Err: err}
	}
	defer rows.Close()

	turns, err := scanTurns(rows)
	if err != nil {
		return nil, &core.StorageError{Op: "scan session history", Err: err}
	}

	log.FromCtx(ctx).Debug().Str("session_id", sessionID).Int("count", len(turns)).Msg("loaded session history")
	return turns, nil
}

// ByDay returns turns across all sessions for a calendar day,
// newest-first. A non-positive limit returns everything.
func (h *History) ByDay(ctx context.Context, day string, limit int) ([]core.Turn, error) {
	if limit <= 0 {
		limit = -1 // sqlite treats LIMIT -1 as unlimited
	}
	query := `SELECT session_id, timestamp, day, user_input, model_response
		FROM chat_history WHERE day = ? ORDER BY timestamp DESC LIMIT ?`

	rows, err := h.db.QueryContext(ctx, query, day, limit)
	if err != nil {
		return nil, &core.StorageError{Op: "query day history", Err: err}
	}
	defer rows.Close()

	turns, err := scanTurns(rows)
	if err != nil {
		return nil, &core.StorageError{Op: "scan day history", Err: err}
	}

	log.FromCtx(ctx).Debug().Str("day", day).Int("count", len(turns)).Msg("loaded same-day history")
	return turns, nil
}

func scanTurns(rows *sql.Rows) ([]core.Turn, error) {
	var turns []core.Turn
	for rows.Next() {
		var t core.Turn
		var ts string
		var input, output sql.NullString

		if err := rows.Scan(&t.SessionID, &ts, &t.Day, &input, &output); err != nil {
			return nil, err
		}

		// Timestamps written before the Go rewrite may not parse; the
		// zero value keeps the row usable.
		t.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		t.Input = input.String
		t.Output = output.String
		turns = append(turns, t)
	}
	return turns, rows.Err()
}
