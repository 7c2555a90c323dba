// Package sqlite provides a SQLite-backed session store. List-valued fields
// are stored as JSON arrays of strings.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/junipergrey/veil-oracle/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS oracle_sessions (
	session_id             TEXT PRIMARY KEY,
	riddle_text            TEXT NOT NULL,
	riddle_answers         TEXT NOT NULL,
	selected_riddle_answer TEXT NOT NULL DEFAULT '',
	sigil_choices          TEXT NOT NULL DEFAULT '[]',
	selected_sigil         TEXT NOT NULL DEFAULT '',
	card_value             TEXT NOT NULL DEFAULT '',
	mantra                 TEXT NOT NULL DEFAULT '',
	poem                   TEXT NOT NULL DEFAULT '',
	song_prompt            TEXT NOT NULL DEFAULT '',
	card_artwork           TEXT NOT NULL DEFAULT '',
	ascii_art              TEXT NOT NULL DEFAULT '',
	sound                  TEXT,
	completed              INTEGER NOT NULL DEFAULT 0,
	created_at             INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_oracle_sessions_created_at
	ON oracle_sessions (created_at DESC);
`

// Store persists sessions in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite session store and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal string list: %w", err)
	}
	return string(data), nil
}

func unmarshalStrings(data string) ([]string, error) {
	if data == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("unmarshal string list: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

func marshalSound(spec *domain.SoundSpec) (sql.NullString, error) {
	if spec == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(spec)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal sound spec: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalSound(data sql.NullString) (*domain.SoundSpec, error) {
	if !data.Valid || data.String == "" {
		return nil, nil
	}
	spec := &domain.SoundSpec{}
	if err := json.Unmarshal([]byte(data.String), spec); err != nil {
		return nil, fmt.Errorf("unmarshal sound spec: %w", err)
	}
	return spec, nil
}

func isConstraintErr(err error) bool {
	var serr *msqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT,
		sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY,
		sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

func (s *Store) Create(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	answers, err := marshalStrings(session.RiddleAnswers)
	if err != nil {
		return err
	}
	sigils, err := marshalStrings(session.SigilChoices)
	if err != nil {
		return err
	}
	sound, err := marshalSound(session.Sound)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
		INSERT INTO oracle_sessions (
			session_id, riddle_text, riddle_answers, selected_riddle_answer,
			sigil_choices, selected_sigil, card_value, mantra, poem,
			song_prompt, card_artwork, ascii_art, sound, completed, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(session.ID), session.RiddleText, answers, session.SelectedRiddleAnswer,
		sigils, session.SelectedSigil, session.CardValue, session.Mantra, session.Poem,
		session.SongPrompt, session.CardArtwork, session.ASCIIArt, sound,
		session.Completed, toMillis(session.CreatedAt),
	)
	if err != nil {
		if isConstraintErr(err) {
			return domain.ErrDuplicateSession
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

const sessionColumns = `session_id, riddle_text, riddle_answers, selected_riddle_answer,
	sigil_choices, selected_sigil, card_value, mantra, poem, song_prompt,
	card_artwork, ascii_art, sound, completed, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		sess      domain.Session
		id        string
		answers   string
		sigils    string
		sound     sql.NullString
		createdAt int64
	)
	err := row.Scan(
		&id, &sess.RiddleText, &answers, &sess.SelectedRiddleAnswer,
		&sigils, &sess.SelectedSigil, &sess.CardValue, &sess.Mantra, &sess.Poem,
		&sess.SongPrompt, &sess.CardArtwork, &sess.ASCIIArt, &sound,
		&sess.Completed, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	sess.ID = domain.SessionID(id)
	sess.CreatedAt = fromMillis(createdAt)
	if sess.RiddleAnswers, err = unmarshalStrings(answers); err != nil {
		return nil, err
	}
	if sess.SigilChoices, err = unmarshalStrings(sigils); err != nil {
		return nil, err
	}
	if sess.Sound, err = unmarshalSound(sound); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) Get(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM oracle_sessions WHERE session_id = ?`,
		string(id),
	)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	return session, nil
}

func (s *Store) Update(ctx context.Context, id domain.SessionID, update domain.SessionUpdate) (*domain.Session, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM oracle_sessions WHERE session_id = ?`,
		string(id),
	)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("select session: %w", err)
	}

	update.Apply(session)

	sigils, err := marshalStrings(session.SigilChoices)
	if err != nil {
		return nil, err
	}
	sound, err := marshalSound(session.Sound)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE oracle_sessions SET
			selected_riddle_answer = ?, sigil_choices = ?, selected_sigil = ?,
			card_value = ?, mantra = ?, poem = ?, song_prompt = ?,
			card_artwork = ?, ascii_art = ?, sound = ?, completed = ?
		WHERE session_id = ?`,
		session.SelectedRiddleAnswer, sigils, session.SelectedSigil,
		session.CardValue, session.Mantra, session.Poem, session.SongPrompt,
		session.CardArtwork, session.ASCIIArt, sound, session.Completed,
		string(id),
	)
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return session, nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]*domain.Session, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM oracle_sessions
		 ORDER BY created_at DESC, session_id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}
