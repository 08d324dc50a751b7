package repository

import (
	"errors"
	"fmt"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestWrapDBError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil", in: nil, want: nil},
		{name: "not found", in: gorm.ErrRecordNotFound, want: ErrRecordNotFound},
		{name: "duplicate", in: gorm.ErrDuplicatedKey, want: ErrDuplicateKey},
		{name: "wrapped not found", in: fmt.Errorf("tx: %w", gorm.ErrRecordNotFound), want: ErrRecordNotFound},
		{name: "own sentinel from transaction", in: ErrRecordNotFound, want: ErrRecordNotFound},
		{name: "state conflict", in: ErrStateConflict, want: ErrStateConflict},
		{name: "own duplicate from transaction", in: fmt.Errorf("tx: %w", ErrDuplicateKey), want: ErrDuplicateKey},
		{name: "mysql duplicate entry", in: &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"}, want: ErrDuplicateKey},
		{name: "mysql deadlock", in: &mysqldriver.MySQLError{Number: 1213, Message: "Deadlock found"}, want: ErrLockConflict},
		{name: "mysql lock wait timeout", in: fmt.Errorf("exec: %w", &mysqldriver.MySQLError{Number: 1205}), want: ErrLockConflict},
		{name: "other mysql error", in: &mysqldriver.MySQLError{Number: 1146, Message: "Table doesn't exist"}, want: ErrDatabase},
		{name: "unknown", in: errors.New("connection refused"), want: ErrDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapDBError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestWrapDBError_KeepsCauseMessage(t *testing.T) {
	err := WrapDBError(errors.New("connection refused"))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, err.Error(), ErrDatabase.Error())
}

func TestWrapRedisError(t *testing.T) {
	assert.NoError(t, WrapRedisError(nil))
	assert.ErrorIs(t, WrapRedisError(redis.Nil), ErrRedisNil)
	assert.ErrorIs(t, WrapRedisError(errors.New("i/o timeout")), ErrRedis)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrRecordNotFound))
	assert.True(t, IsNotFound(ErrRedisNil))
	assert.True(t, IsNotFound(fmt.Errorf("get: %w", ErrRecordNotFound)))
	assert.False(t, IsNotFound(ErrDatabase))
	assert.False(t, IsNotFound(nil))
}
