package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.True(t, IsDuplicateKeyErr(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKeyErr(errors.New("UNIQUE constraint failed: users.email")))
	assert.True(t, IsDuplicateKeyErr(errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key"`)))
	assert.False(t, IsDuplicateKeyErr(errors.New("connection refused")))
}

func TestNewTestIsolatesDatabases(t *testing.T) {
	type probe struct {
		ID   int64
		Name string
	}

	first, err := NewTest()
	assert.NoError(t, err)
	second, err := NewTest()
	assert.NoError(t, err)

	assert.NoError(t, first.AutoMigrate(&probe{}))
	assert.NoError(t, first.Create(&probe{ID: 1, Name: "a"}).Error)

	assert.False(t, second.Migrator().HasTable(&probe{}))
}
