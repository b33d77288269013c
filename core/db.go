package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// DuplicateKeyError is returned by repositories when an insert or update
// violates a unique constraint. Services map it to a domain conflict error;
// no driver error strings leave the storage layer.
type DuplicateKeyError struct {
	Constraint string
}

func (e DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key on constraint %q", e.Constraint)
}

// IsDuplicateKey reports whether err is a DuplicateKeyError, optionally on
// one of the given constraints.
func IsDuplicateKey(err error, constraints ...string) bool {
	dup, ok := errors.Cause(err).(*DuplicateKeyError)
	if !ok {
		return false
	}
	if len(constraints) == 0 {
		return true
	}
	for _, c := range constraints {
		if dup.Constraint == c {
			return true
		}
	}
	return false
}

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
