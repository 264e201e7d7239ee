package conversation

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// PostgresStore persists session contexts in a single table with the
// histories and memory encoded as JSON columns.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// sessionColumns carries the JSON-encoded halves of an intake_sessions row.
type sessionColumns struct {
	symptoms     []byte
	responses    []byte
	demographics []byte
	medical      []byte
	memory       []byte
}

func encodeSessionColumns(c *Context) (sessionColumns, error) {
	var cols sessionColumns
	var err error
	if cols.symptoms, err = json.Marshal(c.SymptomHistory); err != nil {
		return cols, errors.Wrap(err, "encode symptom history")
	}
	if cols.responses, err = json.Marshal(c.PreviousResponses); err != nil {
		return cols, errors.Wrap(err, "encode responses")
	}
	if cols.demographics, err = json.Marshal(c.Demographics); err != nil {
		return cols, errors.Wrap(err, "encode demographics")
	}
	if cols.medical, err = json.Marshal(c.MedicalContext); err != nil {
		return cols, errors.Wrap(err, "encode medical context")
	}
	if cols.memory, err = json.Marshal(c.Memory); err != nil {
		return cols, errors.Wrap(err, "encode memory")
	}
	return cols, nil
}

// decodeSessionColumns fills the JSON-backed fields of c. Empty columns are
// tolerated so partially filled legacy rows still load.
func decodeSessionColumns(c *Context, cols sessionColumns) error {
	for _, col := range []struct {
		raw []byte
		dst interface{}
	}{
		{cols.symptoms, &c.SymptomHistory},
		{cols.responses, &c.PreviousResponses},
		{cols.demographics, &c.Demographics},
		{cols.medical, &c.MedicalContext},
		{cols.memory, &c.Memory},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return errors.Wrap(err, "decode intake session column")
		}
	}
	if c.Demographics == nil {
		c.Demographics = map[string]string{}
	}
	if c.MedicalContext == nil {
		c.MedicalContext = map[string]string{}
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*Context, error) {
	query := `SELECT id, stage, total_turns, confidence, symptom_history, previous_responses,
	                 demographics, medical_context, memory, session_start, last_interaction
	          FROM intake_sessions WHERE id = $1`

	row := s.db.QueryRowContext(ctx, query, id)

	var c Context
	var cols sessionColumns

	err := row.Scan(
		&c.ID,
		&c.Stage,
		&c.TotalTurns,
		&c.Confidence,
		&cols.symptoms,
		&cols.responses,
		&cols.demographics,
		&cols.medical,
		&cols.memory,
		&c.SessionStart,
		&c.LastInteraction,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "load intake session")
	}

	if err := decodeSessionColumns(&c, cols); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) Save(ctx context.Context, c *Context) error {
	cols, err := encodeSessionColumns(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO intake_sessions
			(id, stage, total_turns, confidence, symptom_history, previous_responses,
			 demographics, medical_context, memory, session_start, last_interaction)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			stage = $2,
			total_turns = $3,
			confidence = $4,
			symptom_history = $5,
			previous_responses = $6,
			demographics = $7,
			medical_context = $8,
			memory = $9,
			last_interaction = $11
	`
	_, err = s.db.ExecContext(ctx, query,
		c.ID, c.Stage, c.TotalTurns, c.Confidence, cols.symptoms, cols.responses,
		cols.demographics, cols.medical, cols.memory, c.SessionStart, c.LastInteraction)
	return errors.Wrap(err, "save intake session")
}
