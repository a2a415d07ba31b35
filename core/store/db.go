package store

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"itrack/config"
	"itrack/core/utils"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DB wraps *sql.DB with the driver name so stores can write queries once with
// `?` placeholders and adapt them per backend.
type DB struct {
	*sql.DB
	driver string
}

func (d *DB) Driver() string { return d.driver }

// Rebind converts `?` placeholders to `$n` for postgres. Queries never embed
// user input, so a plain scan outside string literals is sufficient.
func (d *DB) Rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inString := false
	for _, r := range query {
		switch {
		case r == '\'':
			inString = !inString
			b.WriteRune(r)
		case r == '?' && !inString:
			n++
			b.WriteString("$" + strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MonthExpr yields the SQL expression bucketing a timestamp column into a
// YYYY-MM string for the active backend.
func (d *DB) MonthExpr(column string) string {
	if d.driver == DriverPostgres {
		return fmt.Sprintf("to_char(%s, 'YYYY-MM')", column)
	}
	return fmt.Sprintf("strftime('%%Y-%%m', %s)", column)
}

func NewDB(cfg *config.AppConfig, logger *utils.Logger) (*DB, error) {
	driver := strings.TrimSpace(cfg.DBDriver)
	if driver == "" {
		driver = DriverSQLite
	}
	switch driver {
	case DriverSQLite:
		path := cfg.DBPath
		if path == "" {
			path = "data/itrack.db"
		}
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, err
			}
		}
		dsn := "file:" + path + "?" + url.Values{
			"_time_format": {"sqlite"},
			"_pragma":      {"foreign_keys(1)", "busy_timeout(5000)"},
		}.Encode()
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, err
		}
		// modernc sqlite serializes writers; a single connection avoids
		// SQLITE_BUSY under concurrent handlers.
		db.SetMaxOpenConns(1)
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, err
		}
		logger.Printf("store: sqlite open at %s", path)
		return &DB{DB: db, driver: DriverSQLite}, nil
	case DriverPostgres:
		if strings.TrimSpace(cfg.DBURL) == "" {
			return nil, fmt.Errorf("store: db_url required for postgres driver")
		}
		db, err := sql.Open("pgx", cfg.DBURL)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, err
		}
		logger.Printf("store: postgres connected")
		return &DB{DB: db, driver: DriverPostgres}, nil
	default:
		return nil, fmt.Errorf("store: unsupported db driver %q", driver)
	}
}
