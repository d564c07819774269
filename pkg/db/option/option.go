package option

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Operator string

const (
	EQ  Operator = "="
	NEQ Operator = "<>"
	GT  Operator = ">"
	GTE Operator = ">="
	LT  Operator = "<"
	LTE Operator = "<="
)

// QueryOption mutates a gorm query before execution.
type QueryOption func(*gorm.DB) *gorm.DB

type QuerySortBy struct {
	SortBy  string
	OrderBy string
	Allow   map[string]bool
}

type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// WithSortBy orders the query. SortBy must be whitelisted in Allow,
// otherwise the result falls back to created_at.
func WithSortBy(sort QuerySortBy) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		column := "created_at"
		if sort.SortBy != "" && sort.Allow[sort.SortBy] {
			column = sort.SortBy
		}

		direction := "ASC"
		if strings.EqualFold(sort.OrderBy, "desc") {
			direction = "DESC"
		}

		return tx.Order(fmt.Sprintf("%s %s", column, direction))
	}
}

// WithLimit caps the number of returned rows.
func WithLimit(limit int) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return tx
		}
		return tx.Limit(limit)
	}
}

// WithLockingUpdate adds SELECT ... FOR UPDATE to the query.
func WithLockingUpdate() QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
}

// ApplyOperator adds a comparison condition outside of struct equality.
func ApplyOperator(cond Condition) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(fmt.Sprintf("%s %s ?", cond.Field, cond.Operator), cond.Value)
	}
}

// LockingUpdate is the scope variant of WithLockingUpdate, for use with
// tx.Scopes inside a transaction.
func LockingUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
