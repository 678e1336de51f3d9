package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerRepository_GetByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCustomerRepository(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("FROM users WHERE id =").
		WithArgs("cust-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "first_name", "last_name", "role", "created_at", "updated_at"}).
			AddRow("cust-1", "jane@example.com", "Jane", "Doe", "customer", now, now))
	mock.ExpectQuery("FROM users WHERE id =").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	u, err := repo.GetByID(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", u.FullName())

	u, err = repo.GetByID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}
