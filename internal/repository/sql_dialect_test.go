package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestBuildLikeConditionSQLite(t *testing.T) {
	condition, argCount := buildLikeCondition("sqlite", []string{"title", "description"}, []string{"tags"})
	assert.Equal(t, 3, argCount)
	assert.Equal(t, `(title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR CAST(tags AS TEXT) LIKE ? ESCAPE '\')`, condition)
}

func TestBuildLikeConditionPostgres(t *testing.T) {
	condition, argCount := buildLikeCondition("postgres", []string{"title"}, nil)
	assert.Equal(t, 1, argCount)
	assert.Equal(t, `(title ILIKE ? ESCAPE '\')`, condition)
}

func TestBuildLikeConditionEmpty(t *testing.T) {
	condition, argCount := buildLikeCondition("sqlite", []string{" "}, nil)
	assert.Equal(t, 0, argCount)
	assert.Empty(t, condition)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "bike", escapeLike("bike"))
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\tmp`, escapeLike(`c:\tmp`))
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%bike%", 3)
	assert.Len(t, args, 3)
	for _, arg := range args {
		assert.Equal(t, "%bike%", arg)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.True(t, IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email"`)))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, IsUniqueViolation(nil))
}
