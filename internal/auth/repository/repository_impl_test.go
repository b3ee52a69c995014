package repository

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fluxcrm/internal/auth/domain"
	"github.com/smallbiznis/fluxcrm/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUpdateFieldsWithUnchangedValues(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.User{}))

	// report changed rows only, as mysql does without clientFoundRows
	require.NoError(t, conn.Callback().Update().After("gorm:update").Register("test:changed_rows", func(tx *gorm.DB) {
		tx.RowsAffected = 0
	}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := Provide()
	ctx := context.Background()
	user := domain.User{ID: node.Generate(), Name: "Asha", Email: "asha@example.com", PasswordHash: "x", Role: "user", IsActive: true}
	require.NoError(t, repo.Create(ctx, conn, &user))

	err = repo.UpdateFields(ctx, conn, user.ID, map[string]any{"name": "Asha", "role": "user"})
	assert.NoError(t, err)

	err = repo.UpdateFields(ctx, conn, node.Generate(), map[string]any{"name": "Ghost"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
