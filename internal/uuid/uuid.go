// Package uuid wraps github.com/google/uuid with the parameter binding
// gin needs to parse resource IDs out of request URIs.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

type UUID struct {
	google_uuid.UUID
}

var Nil UUID

// UnmarshalParam implements gin's binding.BindUnmarshaler. An empty
// parameter binds the Nil UUID.
func (u *UUID) UnmarshalParam(param string) error {
	if param == "" {
		*u = Nil
		return nil
	}

	parsed, err := google_uuid.Parse(param)
	if err != nil {
		return err
	}

	*u = UUID{parsed}
	return nil
}
