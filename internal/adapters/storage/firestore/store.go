package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/junipergrey/veil-oracle/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given GCP project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("oracle_sessions")
}

func (s *Store) sessionDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.sessionsCol().Doc(string(id))
}

type soundDoc struct {
	Instrument string   `firestore:"instrument"`
	Scale      string   `firestore:"scale"`
	Pattern    []string `firestore:"pattern"`
	TempoBPM   int      `firestore:"tempo_bpm"`
	Mood       string   `firestore:"mood"`
}

type sessionDoc struct {
	RiddleText           string    `firestore:"riddle_text"`
	RiddleAnswers        []string  `firestore:"riddle_answers"`
	SelectedRiddleAnswer string    `firestore:"selected_riddle_answer"`
	SigilChoices         []string  `firestore:"sigil_choices"`
	SelectedSigil        string    `firestore:"selected_sigil"`
	CardValue            string    `firestore:"card_value"`
	Mantra               string    `firestore:"mantra"`
	Poem                 string    `firestore:"poem"`
	SongPrompt           string    `firestore:"song_prompt"`
	CardArtwork          string    `firestore:"card_artwork"`
	ASCIIArt             string    `firestore:"ascii_art"`
	Sound                *soundDoc `firestore:"sound"`
	Completed            bool      `firestore:"completed"`
	CreatedAt            time.Time `firestore:"created_at"`
}

func toSoundDoc(spec *domain.SoundSpec) *soundDoc {
	if spec == nil {
		return nil
	}
	return &soundDoc{
		Instrument: string(spec.Instrument),
		Scale:      string(spec.Scale),
		Pattern:    spec.Pattern,
		TempoBPM:   spec.TempoBPM,
		Mood:       spec.Mood,
	}
}

func fromSoundDoc(doc *soundDoc) *domain.SoundSpec {
	if doc == nil {
		return nil
	}
	return &domain.SoundSpec{
		Instrument: domain.Instrument(doc.Instrument),
		Scale:      domain.Scale(doc.Scale),
		Pattern:    doc.Pattern,
		TempoBPM:   doc.TempoBPM,
		Mood:       doc.Mood,
	}
}

func toDoc(session *domain.Session) sessionDoc {
	return sessionDoc{
		RiddleText:           session.RiddleText,
		RiddleAnswers:        session.RiddleAnswers,
		SelectedRiddleAnswer: session.SelectedRiddleAnswer,
		SigilChoices:         session.SigilChoices,
		SelectedSigil:        session.SelectedSigil,
		CardValue:            session.CardValue,
		Mantra:               session.Mantra,
		Poem:                 session.Poem,
		SongPrompt:           session.SongPrompt,
		CardArtwork:          session.CardArtwork,
		ASCIIArt:             session.ASCIIArt,
		Sound:                toSoundDoc(session.Sound),
		Completed:            session.Completed,
		CreatedAt:            session.CreatedAt,
	}
}

func (d sessionDoc) toSession(id domain.SessionID) *domain.Session {
	return &domain.Session{
		ID:                   id,
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
		Sound:                fromSoundDoc(d.Sound),
		Completed:            d.Completed,
		CreatedAt:            d.CreatedAt,
	}
}

func (s *Store) Create(ctx context.Context, session *domain.Session) error {
	_, err := s.sessionDoc(session.ID).Create(ctx, toDoc(session))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrDuplicateSession
		}
		return fmt.Errorf("firestore create session: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	snap, err := s.sessionDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("firestore get session: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore decode session: %w", err)
	}
	return doc.toSession(id), nil
}

// Update merges only the fields present in the partial update.
func (s *Store) Update(ctx context.Context, id domain.SessionID, update domain.SessionUpdate) (*domain.Session, error) {
	fields := map[string]interface{}{}
	if update.SelectedRiddleAnswer != nil {
		fields["selected_riddle_answer"] = *update.SelectedRiddleAnswer
	}
	if update.SigilChoices != nil {
		fields["sigil_choices"] = *update.SigilChoices
	}
	if update.SelectedSigil != nil {
		fields["selected_sigil"] = *update.SelectedSigil
	}
	if update.CardValue != nil {
		fields["card_value"] = *update.CardValue
	}
	if update.Mantra != nil {
		fields["mantra"] = *update.Mantra
	}
	if update.Poem != nil {
		fields["poem"] = *update.Poem
	}
	if update.SongPrompt != nil {
		fields["song_prompt"] = *update.SongPrompt
	}
	if update.CardArtwork != nil {
		fields["card_artwork"] = *update.CardArtwork
	}
	if update.ASCIIArt != nil {
		fields["ascii_art"] = *update.ASCIIArt
	}
	if update.Sound != nil {
		fields["sound"] = toSoundDoc(update.Sound)
	}
	if update.Completed != nil {
		fields["completed"] = *update.Completed
	}

	if len(fields) > 0 {
		// An existence check first: Set with MergeAll would create the
		// document for an unknown id instead of reporting not-found.
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		if _, err := s.sessionDoc(id).Set(ctx, fields, firestore.MergeAll); err != nil {
			return nil, fmt.Errorf("firestore update session: %w", err)
		}
	}

	return s.Get(ctx, id)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]*domain.Session, error) {
	if limit <= 0 {
		limit = 10
	}

	q := s.sessionsCol().OrderBy("created_at", firestore.Desc).Limit(limit)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Session
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore list sessions: %w", err)
		}

		var doc sessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("firestore decode session: %w", err)
		}
		out = append(out, doc.toSession(domain.SessionID(snap.Ref.ID)))
	}
	return out, nil
}
