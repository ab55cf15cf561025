package database

import (
	"strings"
	"testing"
)

func TestDSN_ReportsMatchedRows(t *testing.T) {
	t.Parallel()

	got := dsn("app", "s3cret", "db.local", "3306", "lockedin")
	if !strings.HasPrefix(got, "app:s3cret@tcp(db.local:3306)/lockedin?") {
		t.Fatalf("dsn prefix wrong: %q", got)
	}
	// The repositories infer row existence from RowsAffected on
	// idempotent UPDATEs; that only holds when the driver counts
	// matched rows rather than changed rows.
	for _, param := range []string{"clientFoundRows=true", "parseTime=true", "loc=UTC"} {
		if !strings.Contains(got, param) {
			t.Fatalf("dsn missing %s: %q", param, got)
		}
	}
}

func TestDSN_EmptyPasswordOmitsColon(t *testing.T) {
	t.Parallel()

	got := dsn("app", "", "localhost", "3306", "lockedin")
	if !strings.HasPrefix(got, "app@tcp(") {
		t.Fatalf("dsn with empty password: %q", got)
	}
}
