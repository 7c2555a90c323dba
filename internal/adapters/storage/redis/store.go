// Package redis persists sessions in Redis: one JSON value per session plus
// a sorted-set recency index for listing.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/junipergrey/veil-oracle/internal/domain"
)

type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for sessions. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "oracle:session:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(id domain.SessionID) string {
	return s.prefix + string(id)
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

type sessionDoc struct {
	SessionID            string            `json:"session_id"`
	RiddleText           string            `json:"riddle_text"`
	RiddleAnswers        []string          `json:"riddle_answers"`
	SelectedRiddleAnswer string            `json:"selected_riddle_answer"`
	SigilChoices         []string          `json:"sigil_choices"`
	SelectedSigil        string            `json:"selected_sigil"`
	CardValue            string            `json:"card_value"`
	Mantra               string            `json:"mantra"`
	Poem                 string            `json:"poem"`
	SongPrompt           string            `json:"song_prompt"`
	CardArtwork          string            `json:"card_artwork"`
	ASCIIArt             string            `json:"ascii_art"`
	Sound                *domain.SoundSpec `json:"sound,omitempty"`
	Completed            bool              `json:"completed"`
	CreatedAt            time.Time         `json:"created_at"`
}

func toDoc(sess *domain.Session) sessionDoc {
	return sessionDoc{
		SessionID:            string(sess.ID),
		RiddleText:           sess.RiddleText,
		RiddleAnswers:        sess.RiddleAnswers,
		SelectedRiddleAnswer: sess.SelectedRiddleAnswer,
		SigilChoices:         sess.SigilChoices,
		SelectedSigil:        sess.SelectedSigil,
		CardValue:            sess.CardValue,
		Mantra:               sess.Mantra,
		Poem:                 sess.Poem,
		SongPrompt:           sess.SongPrompt,
		CardArtwork:          sess.CardArtwork,
		ASCIIArt:             sess.ASCIIArt,
		Sound:                sess.Sound,
		Completed:            sess.Completed,
		CreatedAt:            sess.CreatedAt,
	}
}

func (d sessionDoc) toSession() *domain.Session {
	return &domain.Session{
		ID:                   domain.SessionID(d.SessionID),
		RiddleText:           d.RiddleText,
		RiddleAnswers:        d.RiddleAnswers,
		SelectedRiddleAnswer: d.SelectedRiddleAnswer,
		SigilChoices:         d.SigilChoices,
		SelectedSigil:        d.SelectedSigil,
		CardValue:            d.CardValue,
		Mantra:               d.Mantra,
		Poem:                 d.Poem,
		SongPrompt:           d.SongPrompt,
		CardArtwork:          d.CardArtwork,
		ASCIIArt:             d.ASCIIArt,
		Sound:                d.Sound,
		Completed:            d.Completed,
		CreatedAt:            d.CreatedAt,
	}
}

func (s *Store) Create(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(toDoc(session))
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.key(session.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis create: %w", err)
	}
	if !ok {
		return domain.ErrDuplicateSession
	}

	err = s.client.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(session.CreatedAt.UnixNano()),
		Member: string(session.ID),
	}).Err()
	if err != nil {
		return fmt.Errorf("redis index: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var doc sessionDoc
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return doc.toSession(), nil
}

// Update is read-modify-write at last-write-wins granularity; the domain has
// exactly one client driving one session at a time.
func (s *Store) Update(ctx context.Context, id domain.SessionID, update domain.SessionUpdate) (*domain.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	update.Apply(session)

	data, err := json.Marshal(toDoc(session))
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("redis update: %w", err)
	}
	return session, nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]*domain.Session, error) {
	if limit <= 0 {
		limit = 10
	}

	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list index: %w", err)
	}

	out := make([]*domain.Session, 0, len(ids))
	for _, id := range ids {
		session, err := s.Get(ctx, domain.SessionID(id))
		if err != nil {
			// Expired value with a stale index entry; skip it.
			if errors.Is(err, domain.ErrSessionNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, session)
	}
	return out, nil
}
