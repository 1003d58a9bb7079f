// Package migrations contains dialect-aware Go database migrations that cannot
// be expressed as a single cross-database SQL statement.
package migrations

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect configures the SQL dialect for Go migrations.
// Must be called before goose.Up. Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}

// idColumn is an auto-incrementing integer primary key.
func idColumn() string {
	switch dialect {
	case "postgres":
		return "id BIGSERIAL PRIMARY KEY"
	case "mysql":
		return "id BIGINT AUTO_INCREMENT PRIMARY KEY"
	default: // sqlite3
		return "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
}

// refType is the column type of a foreign key to an idColumn.
func refType() string {
	switch dialect {
	case "postgres", "mysql":
		return "BIGINT"
	default:
		return "INTEGER"
	}
}

// keyType is a string type usable in unique indexes.
func keyType() string {
	if dialect == "mysql" {
		return "VARCHAR(255)"
	}
	return "TEXT"
}

func timestampType() string {
	switch dialect {
	case "postgres":
		return "TIMESTAMPTZ"
	case "mysql":
		return "DATETIME(6)"
	default:
		return "DATETIME"
	}
}
