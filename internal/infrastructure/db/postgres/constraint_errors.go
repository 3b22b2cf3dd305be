package postgres

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isCheckConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	// 23514 is check_violation; older drivers surface it only in the message.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "23514") || strings.Contains(msg, payCheckConstraint)
}
