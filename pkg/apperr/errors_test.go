package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"invalid argument", fmt.Errorf("%w: metric %q", ErrInvalidArgument, "Population"), KindInvalidArgument},
		{"missing artifact", fmt.Errorf("%w: %w", ErrArtifactLoad, ErrFileAccess), KindArtifactLoad},
		{"file access", fmt.Errorf("open data.csv: %w", ErrFileAccess), KindFileAccess},
		{"parse", fmt.Errorf("line 3: %w", ErrParse), KindParse},
		{"missing column", fmt.Errorf("%w: Gender", ErrMissingColumn), KindMissingColumn},
		{"unknown", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClassify_InvalidArgumentIsClientError(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Classify(ErrInvalidArgument).Status)
}
