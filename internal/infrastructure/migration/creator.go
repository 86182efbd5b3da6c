package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const upTemplate = `-- {{.Name}}
-- Created: {{.Timestamp}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

`

const downTemplate = `-- Rollback of {{.Name}}

`

// MigrationFile is a generated up/down pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes the next sequential up/down pair into dir.
// Versions are zero-padded to six digits, e.g. 000006_add_pole_photos.
func CreateMigration(dir, name, description string) (*MigrationFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}

	existing, err := ListMigrations(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	next := 1
	if len(existing) > 0 {
		next = int(existing[len(existing)-1].Version) + 1
	}

	mf := &MigrationFile{
		Version:     fmt.Sprintf("%06d", next),
		Name:        base,
		Description: description,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	mf.UpPath = filepath.Join(dir, mf.Version+"_"+base+".up.sql")
	mf.DownPath = filepath.Join(dir, mf.Version+"_"+base+".down.sql")

	if err := writeTemplate(mf.UpPath, upTemplate, mf); err != nil {
		return nil, err
	}
	if err := writeTemplate(mf.DownPath, downTemplate, mf); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, err
	}
	return mf, nil
}

func writeTemplate(path, body string, data *MigrationFile) error {
	tmpl, err := template.New(filepath.Base(path)).Parse(body)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return tmpl.Execute(f, data)
}

// sanitizeName lower-cases name and collapses separators into single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// Entry is one migration found in a source
type Entry struct {
	Version uint
	Name    string
	HasDown bool
}

// ListMigrations returns the migrations of fsys ordered by version.
// Files that do not follow the <version>_<name>.(up|down).sql layout are skipped.
func ListMigrations(fsys fs.FS) ([]Entry, error) {
	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	byVersion := make(map[uint]*Entry)
	for _, file := range files {
		stem, direction, ok := splitDirection(file)
		if !ok {
			continue
		}
		prefix, name, ok := strings.Cut(stem, "_")
		if !ok {
			continue
		}
		version, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			continue
		}
		e, seen := byVersion[uint(version)]
		if !seen {
			e = &Entry{Version: uint(version), Name: name}
			byVersion[uint(version)] = e
		}
		if direction == "down" {
			e.HasDown = true
		}
	}

	entries := make([]Entry, 0, len(byVersion))
	for _, e := range byVersion {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Version < entries[j].Version })
	return entries, nil
}

func splitDirection(file string) (string, string, bool) {
	switch {
	case strings.HasSuffix(file, ".up.sql"):
		return strings.TrimSuffix(file, ".up.sql"), "up", true
	case strings.HasSuffix(file, ".down.sql"):
		return strings.TrimSuffix(file, ".down.sql"), "down", true
	}
	return "", "", false
}
