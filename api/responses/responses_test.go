package responses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/campusprint/campusprint-backend/pkg/errors"
	"github.com/campusprint/campusprint-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope types.SuccessEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "world", data["hello"])
}

func TestWriteErrorTypedCodes(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "validation surfaces message",
			err:     pkgerrors.New(pkgerrors.CodeValidation, "copies must be positive"),
			status:  http.StatusBadRequest,
			code:    "VALIDATION_ERROR",
			message: "copies must be positive",
		},
		{
			name:    "not found surfaces message",
			err:     pkgerrors.New(pkgerrors.CodeNotFound, "order not found"),
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "order not found",
		},
		{
			name:    "state conflict maps to 422",
			err:     pkgerrors.New(pkgerrors.CodeStateConflict, "completed orders are final"),
			status:  http.StatusUnprocessableEntity,
			code:    "STATE_CONFLICT",
			message: "completed orders are final",
		},
		{
			name:    "internal hides message",
			err:     pkgerrors.New(pkgerrors.CodeInternal, "pq: connection reset"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_ERROR",
			message: "internal server error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)

			var envelope types.ErrorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
			assert.Equal(t, tc.code, envelope.Error.Code)
			assert.Equal(t, tc.message, envelope.Error.Message)
		})
	}
}

func TestWriteErrorUntyped(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "INTERNAL_ERROR", envelope.Error.Code)
}
