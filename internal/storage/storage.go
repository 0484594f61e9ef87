// Package storage описывает общие ошибки хранилищ пользователей.
//
// Реализации лежат в подпакетах: postgresql, redisstore и memory.
// Каждая из них сама обеспечивает уникальность username и сообщает
// о нарушении через ErrUserExists.
package storage

import (
	"errors"
	"math"
)

var (
	// ErrUserExists возвращается при попытке создать пользователя с занятым username.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound возвращается, когда пользователь с таким username отсутствует.
	ErrUserNotFound = errors.New("user not found")
)

const (
	// DefaultListLimit — размер страницы по умолчанию для ListUsers.
	DefaultListLimit = 50
	// MaxListLimit — верхняя граница размера страницы для ListUsers.
	MaxListLimit = 500
	// MaxListOffset — верхняя граница смещения; offset+limit не переполняет int64.
	MaxListOffset = math.MaxInt32
)

// NormalizePage приводит limit и offset к допустимым значениям.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset > MaxListOffset {
		offset = MaxListOffset
	}
	return limit, offset
}
