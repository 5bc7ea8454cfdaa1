package trbuild

import (
	"errors"
	"strconv"
)

// ProjectID identifies a project within the provisioning service.
type ProjectID int64

// Validate returns a non-nil error if the project ID is invalid.
func (id ProjectID) Validate() error {
	if id <= 0 {
		return errors.New("a positive project ID is required")
	}
	return nil
}

// String returns a string representation of the project ID.
func (id ProjectID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
