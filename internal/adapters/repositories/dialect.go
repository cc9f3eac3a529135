package repositories

import (
	"strconv"
	"strings"
)

// Dialect adapts the shared SQL to a database/sql driver.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// DialectFor maps a driver name ("sqlite", "pgx") to its dialect.
func DialectFor(driver string) Dialect {
	if driver == "pgx" || driver == "postgres" {
		return DialectPostgres
	}
	return DialectSQLite
}

// Rebind rewrites ? placeholders to $1, $2, ... for PostgreSQL.
// Queries must not contain a literal question mark.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}
