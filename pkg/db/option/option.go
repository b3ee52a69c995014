package option

import (
	"strings"

	"gorm.io/gorm"
)

// QueryOption mutates a gorm statement before it is executed.
type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type QueryOptionFunc func(db *gorm.DB) *gorm.DB

func (f QueryOptionFunc) Apply(db *gorm.DB) *gorm.DB {
	return f(db)
}

// WithOrder appends an ORDER BY clause; an empty clause is ignored.
func WithOrder(clause string) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			return db
		}
		return db.Order(clause)
	})
}

// WithWhere appends a condition; zero-valued args are kept as-is.
func WithWhere(query string, args ...any) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	})
}

// WithLimit caps the number of rows; non-positive limits are ignored.
func WithLimit(limit int) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	})
}
