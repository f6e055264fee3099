package postgres

import (
	"github.com/omni/authority-bridge/db"
)

type basePostgresRepo struct {
	table string
	db    db.Querier
}

func newBasePostgresRepo(table string, db db.Querier) *basePostgresRepo {
	return &basePostgresRepo{
		table: table,
		db:    db,
	}
}

// bytea keeps empty byte slices from being sent as NULL into NOT NULL columns.
func bytea(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
