package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/ntmerge/record"
)

// loadSQLite reads rows from a SQLite database as loose records.
// Column order of the query is irrelevant; rows keep query order.
func loadSQLite(ctx context.Context, loc Location) (*Table, error) {
	// sql.Open would silently create a missing database
	if _, err := os.Stat(loc.Path); err != nil {
		return nil, fmt.Errorf("database not found: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+loc.Path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	query := loc.Query
	if query == "" {
		query = "SELECT * FROM " + quoteIdent(loc.Table)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	table := &Table{}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(table.Records), err)
		}

		m := make(record.Map, len(cols))
		for i, col := range cols {
			v, err := record.FromAny(raw[i])
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", len(table.Records), col, err)
			}
			m[col] = v
		}
		table.Records = append(table.Records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return table, nil
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
