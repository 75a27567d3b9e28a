package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"dsemotion/domain/frame"
	"dsemotion/domain/run"
)

// JSONB stores any JSON-encodable value in a JSONB column.
// JSONB implements driver.Valuer and sql.Scanner for database compatibility.
type JSONB[T any] struct {
	V T
}

// Value implements driver.Valuer for JSONB
func (j JSONB[T]) Value() (driver.Value, error) {
	data, err := json.Marshal(j.V)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSONB: %w", err)
	}
	return data, nil
}

// Scan implements sql.Scanner for JSONB
func (j *JSONB[T]) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		var zero T
		j.V = zero
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONB", value)
	}
	if err := json.Unmarshal(data, &j.V); err != nil {
		return fmt.Errorf("failed to unmarshal JSONB: %w", err)
	}
	return nil
}

type (
	rangesColumn  = JSONB[frame.Ranges]
	resultsColumn = JSONB[[]run.FrameResult]
)
