package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// versionFormat matches goose's timestamped naming scheme.
const versionFormat = "20060102150405"

// CreateSQLMigration writes an empty goose SQL migration at
// <dir>/<YYYYMMDDHHMMSS>_<name>.sql and returns its path. The name is
// lowercased and reduced to [a-z0-9_] so the file passes ValidateDir.
func CreateSQLMigration(dir string, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}

	safe := sanitizeMigrationName(name)
	if safe == "" {
		return "", fmt.Errorf("migration name %q sanitizes to nothing", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	fullpath := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", time.Now().UTC().Format(versionFormat), safe))
	if _, err := os.Stat(fullpath); err == nil {
		return "", fmt.Errorf("migration already exists: %s", fullpath)
	}

	var body strings.Builder
	body.WriteString("-- +goose Up\n-- +goose StatementBegin\n")
	fmt.Fprintf(&body, "-- write the up migration for %s here\n", safe)
	body.WriteString("-- +goose StatementEnd\n\n")
	body.WriteString("-- +goose Down\n-- +goose StatementBegin\n")
	fmt.Fprintf(&body, "-- write the down migration for %s here\n", safe)
	body.WriteString("-- +goose StatementEnd\n")

	if err := os.WriteFile(fullpath, []byte(body.String()), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", fullpath, err)
	}
	return fullpath, nil
}

func sanitizeMigrationName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, strings.ToLower(strings.TrimSpace(name)))
	for strings.Contains(mapped, "__") {
		mapped = strings.ReplaceAll(mapped, "__", "_")
	}
	return strings.Trim(mapped, "_")
}
