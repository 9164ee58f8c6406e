package sync

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var autoIncrementRe = regexp.MustCompile(`AUTO_INCREMENT=\d+ `)

// ExportPath is the schema file written by Sync: the first "_"-separated
// segment of the prefix with a .sql extension, inside OutputDir.
func (s *Syncer) ExportPath() string {
	name, _, _ := strings.Cut(s.options.Prefix, "_")
	return filepath.Join(s.options.OutputDir, name+".sql")
}

func (s *Syncer) export(ctx context.Context) error {
	names, err := s.exec.Tables(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	var b strings.Builder
	for _, name := range names {
		if !strings.HasPrefix(name, s.options.Prefix) {
			continue
		}
		ddl, err := s.exec.ShowCreateTable(ctx, name)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConnection, err)
		}
		b.WriteString(stripAutoIncrement(ddl))
		b.WriteString(";\n\n")
		s.printf("Exported table %s\n", name)
	}

	path := s.ExportPath()
	if err := s.fs.MkdirAll(filepath.Dir(path)); err != nil {
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	if err := s.fs.WriteFile(path, []byte(b.String())); err != nil {
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	s.println("Wrote", path)
	return nil
}

// stripAutoIncrement removes the first "AUTO_INCREMENT=<n> " table option.
func stripAutoIncrement(ddl string) string {
	loc := autoIncrementRe.FindStringIndex(ddl)
	if loc == nil {
		return ddl
	}
	return ddl[:loc[0]] + ddl[loc[1]:]
}
