package sqlxrepos

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

const uniqueViolation = "23505"

// trapErr maps driver errors to their typed equivalents: "no rows" to the
// domain's not-found error and unique violations to core.DuplicateKeyError.
// Anything else is wrapped with msg.
func trapErr(err error, msg string, notFoundErr error) error {
	if err == sql.ErrNoRows {
		return notFoundErr
	}
	if dup := trapDuplicateKey(err); dup != nil {
		return dup
	}
	return errors.Wrap(err, msg)
}

func trapDuplicateKey(err error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return &core.DuplicateKeyError{Constraint: pqErr.Constraint}
	}
	return nil
}
