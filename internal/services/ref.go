package services

import (
	"bytes"
	"encoding/json"

	"github.com/diewo77/epic-crm/internal/models"
)

// RefInput is an optional identity reference in a write payload. An absent
// field leaves the reference unchanged; null or 0 clears it.
type RefInput struct {
	Set bool
	ID  *uint // nil clears
}

// SetRef points the reference at id. SetRef(0) clears it.
func SetRef(id uint) RefInput {
	return RefInput{Set: true, ID: models.Ref(id)}
}

// UnmarshalJSON marks the field present, so that null can be told apart
// from an omitted field.
func (r *RefInput) UnmarshalJSON(b []byte) error {
	r.Set, r.ID = true, nil
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var id uint
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	r.ID = models.Ref(id)
	return nil
}

// MarshalJSON writes the id, or null when the reference is cleared or unset.
func (r RefInput) MarshalJSON() ([]byte, error) {
	if r.ID == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*r.ID)
}
