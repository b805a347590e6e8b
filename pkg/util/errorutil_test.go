package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewValidationError("Nenhum dado recebido")
	de := ToDomainError(original)
	require.NotNil(t, de)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "Nenhum dado recebido", de.Message)
}

func TestToDomainErrorHidesRawCause(t *testing.T) {
	de := ToDomainError(errors.New("pq: relation tickets does not exist"))
	require.NotNil(t, de)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Equal(t, "Erro interno do servidor", de.Message)
	assert.NotContains(t, de.Message, "relation")
}

func TestToDomainErrorUniqueViolationIsConflict(t *testing.T) {
	cause := fmt.Errorf("insert customer: %w", &pgconn.PgError{Code: "23505", ConstraintName: "customers_reference_code_key"})
	de := ToDomainError(cause)
	require.NotNil(t, de)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
	assert.Equal(t, "CONFLICT", de.Code)
}

func TestToDomainErrorDeadlineExceeded(t *testing.T) {
	de := ToDomainError(fmt.Errorf("begin tx: %w", context.DeadlineExceeded))
	require.NotNil(t, de)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Equal(t, "Erro interno do servidor", de.Message)
}
