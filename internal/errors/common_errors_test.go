package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeValidation,
				Message: "no order or logistics rows to reconcile",
			},
			wantMessage: "[VALIDATION] no order or logistics rows to reconcile",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "failed to open orders export",
				Cause:   fmt.Errorf("no such file"),
			},
			wantMessage: "[PARSING] failed to open orders export: no such file",
		},
		{
			name: "error with context",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "missing required columns",
				Context: map[string]interface{}{"file": "orders.csv", "columns": "Name"},
			},
			wantMessage: "[PARSING] missing required columns (columns=Name, file=orders.csv)",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeStorage,
			},
			wantMessage: "[STORAGE] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewStorageError("failed to save report", cause)

	assert.Same(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))

	assert.Nil(t, NewAppValidationError("bad").Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	err := NewAppError(ErrTypeConfig, "invalid config", nil)
	assert.Nil(t, err.Context)

	result := err.WithContext("field", "pipeline.per_bar_cogs").WithContext("value", -1)

	assert.Same(t, err, result)
	require.Len(t, result.Context, 2)
	assert.Equal(t, "pipeline.per_bar_cogs", result.Context["field"])
	assert.Equal(t, -1, result.Context["value"])
}

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantMsg  string
	}{
		{name: "parsing", err: NewParsingError("bad csv", cause), wantType: ErrTypeParsing, wantMsg: "bad csv"},
		{name: "storage", err: NewStorageError("write failed", cause), wantType: ErrTypeStorage, wantMsg: "write failed"},
		{name: "validation", err: NewAppValidationError("empty input"), wantType: ErrTypeValidation, wantMsg: "empty input"},
		{name: "not found", err: NewNotFoundError("period report"), wantType: ErrTypeNotFound, wantMsg: "period report not found"},
		{name: "config", err: NewConfigError("bad yaml", cause), wantType: ErrTypeConfig, wantMsg: "bad yaml"},
		{name: "input", err: NewInputError("fee", "must not be negative"), wantType: ErrTypeInput, wantMsg: "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMsg, tt.err.Message)
		})
	}

	assert.Equal(t, "fee", NewInputError("fee", "x").Context["field"])
}

func TestIsType(t *testing.T) {
	inner := NewParsingError("missing required columns", nil)
	wrapped := fmt.Errorf("load orders: %w", NewAppError(ErrTypeStorage, "ingest failed", inner))

	assert.True(t, IsType(wrapped, ErrTypeStorage))
	assert.True(t, IsType(wrapped, ErrTypeParsing))
	assert.False(t, IsType(wrapped, ErrTypeConfig))
	assert.False(t, IsType(errors.New("plain"), ErrTypeParsing))
	assert.False(t, IsType(nil, ErrTypeParsing))
}
