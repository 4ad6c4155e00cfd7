package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocker/backend/internal/interfaces/http/dto"
)

func TestNewSuccessResponse(t *testing.T) {
	resp := dto.NewSuccessResponse(map[string]string{"name": "Acme"})

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Meta)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		name          string
		total         int64
		page          int
		pageSize      int
		expectedPages int
	}{
		{"exact fit", 40, 1, 20, 2},
		{"partial last page", 41, 1, 20, 3},
		{"empty", 0, 1, 20, 0},
		{"single page", 5, 1, 20, 1},
		{"zero page size", 10, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := dto.NewSuccessResponseWithMeta([]string{}, tt.total, tt.page, tt.pageSize)

			require.NotNil(t, resp.Meta)
			assert.Equal(t, tt.total, resp.Meta.Total)
			assert.Equal(t, tt.page, resp.Meta.Page)
			assert.Equal(t, tt.pageSize, resp.Meta.PageSize)
			assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages)
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := dto.NewErrorResponse(dto.ErrCodeNotFound, "Tenant not found")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Tenant not found", resp.Error.Message)
	assert.Empty(t, resp.Error.RequestID)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeConflict, "Version mismatch", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeConflict, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []dto.ValidationDetail{
		{Field: "code", Message: "This field is required"},
		{Field: "contact_email", Message: "Invalid email format"},
	}

	resp := dto.NewValidationErrorResponse("Request validation failed", "req-456", details)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-456", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "code", resp.Error.Details[0].Field)
}
