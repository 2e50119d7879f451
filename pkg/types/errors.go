package types

import "errors"

// Standard errors. Components wrap these with context using %w so callers
// can classify a failure with errors.Is.
var (
	// ErrNotFound reports a missing state document or entity id.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists reports an append-only entity whose id is taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidValue reports an enum value outside its closed set or a
	// missing field required to create an entity.
	ErrInvalidValue = errors.New("invalid value")

	// ErrSchemaViolation reports a document that fails whole-document
	// validation.
	ErrSchemaViolation = errors.New("schema validation failed")

	// ErrParse reports a state document that is not well-formed.
	ErrParse = errors.New("malformed state document")

	// ErrStore reports an I/O failure while persisting.
	ErrStore = errors.New("store failure")

	// ErrConflict reports a document rewritten by another caller between
	// load and persist.
	ErrConflict = errors.New("state document changed since it was read")
)

// ErrorKind returns a short stable name for the standard error wrapped by
// err, or "internal" when err wraps none of them.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrInvalidValue):
		return "invalid_value"
	case errors.Is(err, ErrSchemaViolation):
		return "schema_violation"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrStore):
		return "store_error"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}
