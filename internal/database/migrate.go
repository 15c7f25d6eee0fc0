package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

// Schema is the MySQL DDL plus the rating and genre seed rows.
//
//go:embed schema.sql
var Schema string

// Migrate applies every statement of script in order.  Statements are
// separated by semicolons and "--" comment lines are dropped; script
// must not contain semicolons inside literals.
func Migrate(ctx context.Context, db *sql.DB, script string) error {
	for i, stmt := range SplitStatements(script) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}

// SplitStatements breaks a SQL script into individual statements.
func SplitStatements(script string) []string {
	var b strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	var out []string
	for _, part := range strings.Split(b.String(), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
