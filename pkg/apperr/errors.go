// Package apperr defines the error kinds shared by the dataset, trend and
// prediction packages and their mapping onto API responses.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrFileAccess covers a missing or unreadable dataset or artifact file.
	ErrFileAccess = errors.New("file access error")
	// ErrParse covers a malformed dataset file.
	ErrParse = errors.New("parse error")
	// ErrMissingColumn is returned when a required dataset column is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrArtifactLoad covers a corrupt or incompatible serialized model.
	ErrArtifactLoad = errors.New("artifact load error")
	// ErrInvalidArgument covers rejected caller input such as an unknown metric.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Kind is the API-facing classification of an error.
type Kind struct {
	Code   string
	Status int
}

var (
	KindInvalidArgument = Kind{Code: "INVALID_ARGUMENT", Status: http.StatusBadRequest}
	KindFileAccess      = Kind{Code: "FILE_ACCESS_ERROR", Status: http.StatusInternalServerError}
	KindParse           = Kind{Code: "PARSE_ERROR", Status: http.StatusInternalServerError}
	KindMissingColumn   = Kind{Code: "MISSING_COLUMN", Status: http.StatusInternalServerError}
	KindArtifactLoad    = Kind{Code: "ARTIFACT_LOAD_ERROR", Status: http.StatusInternalServerError}
	KindInternal        = Kind{Code: "INTERNAL_ERROR", Status: http.StatusInternalServerError}
)

// Classify maps err onto its Kind. Artifact failures are checked before file
// access because a missing artifact wraps both.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrArtifactLoad):
		return KindArtifactLoad
	case errors.Is(err, ErrMissingColumn):
		return KindMissingColumn
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrFileAccess):
		return KindFileAccess
	default:
		return KindInternal
	}
}
