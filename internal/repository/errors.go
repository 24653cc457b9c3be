package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/yatube-feed/internal/apperr"
)

// notFound 将 gorm.ErrRecordNotFound 转换为业务 NotFound
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(format, args...)
	}
	return err
}
