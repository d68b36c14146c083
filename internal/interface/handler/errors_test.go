package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"flightwatch-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{entity.NewValidationError("flightNumber", "bad"), http.StatusBadRequest, "validation_error"},
		{entity.ErrEmptySelection, http.StatusBadRequest, "validation_error"},
		{fmt.Errorf("session x: %w", entity.ErrNotFound), http.StatusNotFound, "not_found"},
		{entity.ErrForbidden, http.StatusForbidden, "forbidden"},
		{entity.ErrBusy, http.StatusConflict, "conflict"},
		{entity.ErrStaleResponse, http.StatusConflict, "conflict"},
		{&entity.CollaboratorError{Op: "search_flights", StatusCode: 500}, http.StatusBadGateway, "upstream_error"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}
