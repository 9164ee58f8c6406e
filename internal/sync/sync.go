// Package sync drives a set of table descriptions from compilation to a live
// database and back out to a schema file. Every table is dropped and recreated;
// there is no migration and no rollback, so a failed sync may leave some tables
// applied.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"json2sql/internal/core"
	"json2sql/internal/dialect"
	_ "json2sql/internal/dialect/mysql" // registers the MySQL dialect
	"json2sql/internal/introspect/mysql"
	mysqlparser "json2sql/internal/parser/mysql"
)

var (
	// ErrConnection wraps failures of the execution channel.
	ErrConnection = errors.New("database connection error")
	// ErrFileWrite wraps failures to create the output directory or write the export file.
	ErrFileWrite = errors.New("file write error")
	// ErrNotConnected is returned when Sync runs without an execution channel.
	ErrNotConnected = errors.New("not connected")
	// ErrInvalidStatement is returned by the preflight when a compiled statement is not a single CREATE TABLE.
	ErrInvalidStatement = errors.New("invalid statement")
)

// Executor runs statements against a database and reads its schema back.
type Executor interface {
	Exec(ctx context.Context, stmt string) error
	Tables(ctx context.Context) ([]string, error)
	ShowCreateTable(ctx context.Context, name string) (string, error)
	Close() error
}

// Options struct contains all settings of a sync run.
type Options struct {
	DSN string
	// Prefix is prepended to every table name. Exported tables are the ones whose
	// name starts with it.
	Prefix    string
	OutputDir string
	// Sync drops each table before creating it.
	Sync bool
	// Log enables progress output on Out.
	Log bool
	// Verify parses every compiled statement before anything is executed.
	Verify bool
	Out    io.Writer
	FS     FileSystem
}

// DefaultOptions returns options with dropping and logging enabled.
func DefaultOptions() Options {
	return Options{
		OutputDir: "sql",
		Sync:      true,
		Log:       true,
	}
}

// Syncer compiles table descriptions and applies them over a single connection.
type Syncer struct {
	options  Options
	gen      dialect.Generator
	exec     Executor
	fs       FileSystem
	analyzer *mysqlparser.StatementAnalyzer
	out      io.Writer
}

// New returns a Syncer for the given options. It does not connect.
func New(options Options) *Syncer {
	out := options.Out
	if out == nil || !options.Log {
		out = io.Discard
	}
	fs := options.FS
	if fs == nil {
		fs = OSFileSystem{}
	}
	return &Syncer{
		options:  options,
		gen:      dialect.GetDialect(dialect.MySQL).Generator(options.Prefix),
		fs:       fs,
		analyzer: mysqlparser.NewStatementAnalyzer(),
		out:      out,
	}
}

func (s *Syncer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func (s *Syncer) println(args ...any) {
	_, _ = fmt.Fprintln(s.out, args...)
}

// Connect opens the MySQL connection named by Options.DSN.
func (s *Syncer) Connect(ctx context.Context) error {
	conn, err := mysql.Open(ctx, s.options.DSN)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	if info, err := conn.Server(ctx); err == nil {
		s.printf("Connected to %s\n", info)
	}
	s.exec = conn
	return nil
}

// UseExecutor installs an already open execution channel. The Syncer takes
// ownership and closes it when Sync returns.
func (s *Syncer) UseExecutor(exec Executor) {
	s.exec = exec
}

// Close releases the execution channel. It is safe to call more than once.
func (s *Syncer) Close() error {
	if s.exec == nil {
		return nil
	}
	exec := s.exec
	s.exec = nil
	return exec.Close()
}

// Compile compiles every table in mapping order. The first failure aborts.
func (s *Syncer) Compile(tables *core.OrderedMap[*core.Table]) ([]*dialect.Result, error) {
	results := make([]*dialect.Result, 0, tables.Len())
	for name, t := range tables.All() {
		res, err := s.gen.Compile(name, t)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Preview returns every compiled statement followed by a blank line. It has no side effects.
func (s *Syncer) Preview(tables *core.OrderedMap[*core.Table]) (string, error) {
	results, err := s.Compile(tables)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, r := range results {
		b.WriteString(r.Statement)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

// Sync drops and recreates every table in mapping order, then exports the
// server's rendering of all prefixed tables to ExportPath. The connection is
// released when Sync returns, whether it succeeded or not.
func (s *Syncer) Sync(ctx context.Context, tables *core.OrderedMap[*core.Table]) (err error) {
	if s.exec == nil {
		return ErrNotConnected
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: close: %w", ErrConnection, closeErr)
		}
	}()

	results, err := s.Compile(tables)
	if err != nil {
		return err
	}
	if s.options.Verify {
		if err := s.verify(results); err != nil {
			return err
		}
	}

	for _, r := range results {
		if s.options.Sync {
			drop := s.gen.GenerateDropTable(r.Table)
			s.warn(drop)
			if err := s.exec.Exec(ctx, drop); err != nil {
				return fmt.Errorf("%w: drop table %s: %w", ErrConnection, r.Table, err)
			}
			s.printf("Dropped table %s\n", r.Table)
		}
		if err := s.exec.Exec(ctx, r.Statement); err != nil {
			return fmt.Errorf("%w: create table %s: %w\n  Statement: %s", ErrConnection, r.Table, err, truncateSQL(r.Statement))
		}
		s.printf("Created table %s\n", r.Table)
	}

	return s.export(ctx)
}

func (s *Syncer) verify(results []*dialect.Result) error {
	p := mysqlparser.NewParser()
	for _, r := range results {
		if _, err := p.ParseCreateTable(r.Statement); err != nil {
			return fmt.Errorf("%w: table %s: %w", ErrInvalidStatement, r.Table, err)
		}
	}
	return nil
}

// warn logs a danger line for statements that destroy data.
func (s *Syncer) warn(stmt string) {
	analysis := s.analyzer.AnalyzeStatement(stmt)
	if analysis.IsDestructive {
		s.printf("[DANGER] %s\n    SQL: %s\n", analysis.DestructiveReason, stmt)
	}
}

func truncateSQL(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if len(stmt) > 80 {
		return stmt[:77] + "..."
	}
	return stmt
}
