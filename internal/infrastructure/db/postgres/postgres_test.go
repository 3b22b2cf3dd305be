package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cagataysunal/payroll-manager/internal/core/domain"
)

func TestEmployeeModelMapping(t *testing.T) {
	age := 41
	e := &domain.Employee{
		ID:           7,
		Email:        "a@x.com",
		Name:         "A",
		EntryDate:    time.Date(2024, 1, 1, 13, 30, 0, 0, time.UTC),
		Age:          &age,
		Pay:          1000,
		Role:         domain.RoleManager,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=1$c2FsdA$aGFzaA",
	}

	m := fromEmployeeDomain(e)
	assert.Equal(t, "employee", m.TableName())
	assert.Equal(t, "MANAGER", m.Role)
	assert.Equal(t, e.PasswordHash, m.HashedPassword)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), m.EntryDate)

	back := toEmployeeDomain(m)
	assert.Equal(t, e.ID, back.ID)
	assert.Equal(t, e.Email, back.Email)
	assert.Equal(t, domain.RoleManager, back.Role)
	require.NotNil(t, back.Age)
	assert.Equal(t, 41, *back.Age)
}

func TestTranslateWriteError(t *testing.T) {
	dup := translateWriteError(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), "create")
	assert.ErrorIs(t, dup, domain.ErrEmployeeExists)

	check := translateWriteError(gorm.ErrCheckConstraintViolated, "create")
	assert.ErrorIs(t, check, domain.ErrValidation)

	legacy := translateWriteError(errors.New(`violates check constraint "chk_employee_pay_non_negative" (SQLSTATE 23514)`), "update")
	assert.ErrorIs(t, legacy, domain.ErrValidation)

	boom := errors.New("connection refused")
	other := translateWriteError(boom, "failed to create employee")
	assert.ErrorIs(t, other, boom)
	assert.Contains(t, other.Error(), "failed to create employee")
}

func TestGormLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newGormLogger(zerolog.New(&buf), false)
	sqlFn := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(context.Background(), time.Now(), sqlFn, gorm.ErrRecordNotFound)
	assert.Zero(t, buf.Len(), "record not found must not be logged")

	l.Trace(context.Background(), time.Now(), sqlFn, nil)
	assert.Zero(t, buf.Len(), "fast queries are silent at warn level")

	l.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, nil)
	assert.Contains(t, buf.String(), "slow query")
	buf.Reset()

	l.Trace(context.Background(), time.Now(), sqlFn, errors.New("syntax error"))
	assert.Contains(t, buf.String(), "query failed")
	assert.Contains(t, buf.String(), `"component":"gorm"`)
	buf.Reset()

	l.LogMode(logger.Silent).Trace(context.Background(), time.Now(), sqlFn, errors.New("syntax error"))
	assert.Zero(t, buf.Len())
}
