package reportstore

import (
	"fmt"
	"regexp"

	"github.com/scangrade/scangrade/schema"
)

// sqlIdentPattern matches bare SQL identifiers. Anything else is refused
// outright instead of escaped.
var sqlIdentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ensureTableName refuses table names that are not plain identifiers, so
// they can be spliced into statements without quoting surprises.
func ensureTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !sqlIdentPattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q: only letters, digits and underscores are allowed, and the first character must not be a digit", name)
	}
	return nil
}

// quoteIdent wraps an identifier in the quoting style of the backend.
func quoteIdent(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	// PostgreSQL and SQLite both use double quotes
	return `"` + name + `"`
}
