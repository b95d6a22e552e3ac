package types

import "time"

// Gender values used by the person directory.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// Person is the external identity record referenced by relationship edges.
// The engine reads persons through the directory and never mutates them; only
// the fields needed for ordering and derivation are carried here.
type Person struct {
	ID        string     `json:"id"`
	Gender    string     `json:"gender,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	IsAlive   bool       `json:"is_alive"`
}
