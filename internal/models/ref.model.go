package models

import (
	"encoding/json"
	"strconv"
)

// Ref is a foreign reference as delivered by the farm API. Endpoints are
// inconsistent about the shape: some send a bare numeric id, some a
// numeric string, some the embedded object. Ref normalizes all of them
// at decode time so downstream logic only ever compares ids.
type Ref struct {
	ID   int
	Name string
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	// Bare id.
	var id int
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		return nil
	}

	// Id as a string.
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		r.ID = parsed
		return nil
	}

	// Embedded object.
	var obj struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.ID = obj.ID
	r.Name = obj.Name
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// Valid reports whether the reference resolved to a usable id.
func (r Ref) Valid() bool {
	return r.ID > 0
}
