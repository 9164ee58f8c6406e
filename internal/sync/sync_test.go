package sync

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"json2sql/internal/core"
)

type fakeExecutor struct {
	executed []string
	tables   []string
	ddl      map[string]string
	failOn   string
	closed   int
}

func (f *fakeExecutor) Exec(_ context.Context, stmt string) error {
	if f.failOn != "" && strings.Contains(stmt, f.failOn) {
		return errors.New("boom")
	}
	f.executed = append(f.executed, stmt)
	return nil
}

func (f *fakeExecutor) Tables(context.Context) ([]string, error) {
	return f.tables, nil
}

func (f *fakeExecutor) ShowCreateTable(_ context.Context, name string) (string, error) {
	ddl, ok := f.ddl[name]
	if !ok {
		return "", errors.New("no such table")
	}
	return ddl, nil
}

func (f *fakeExecutor) Close() error {
	f.closed++
	return nil
}

type memFS struct {
	dirs  []string
	files map[string]string
	err   error
}

func (m *memFS) MkdirAll(path string) error {
	if m.err != nil {
		return m.err
	}
	m.dirs = append(m.dirs, path)
	return nil
}

func (m *memFS) WriteFile(path string, data []byte) error {
	if m.files == nil {
		m.files = map[string]string{}
	}
	m.files[path] = string(data)
	return nil
}

func userTables() *core.OrderedMap[*core.Table] {
	user := core.NewTable("用户表")
	user.Fields.Set("name", &core.StringField{Length: 40, Comment: "用户名"})
	user.Fields.Set("age", &core.IntegerField{Comment: "年龄"})

	task := core.NewTable("任务表")
	task.Fields.Set("title", &core.StringField{Length: 100, Comment: "标题"})

	tables := core.NewOrderedMap[*core.Table]()
	tables.Set("user", user)
	tables.Set("task", task)
	return tables
}

func newTestSyncer(opts Options) (*Syncer, *fakeExecutor, *memFS, *bytes.Buffer) {
	var buf bytes.Buffer
	fs := &memFS{}
	opts.Out = &buf
	opts.FS = fs
	s := New(opts)
	exec := &fakeExecutor{
		tables: []string{"test_user", "test_task", "other_log"},
		ddl: map[string]string{
			"test_user": "CREATE TABLE `test_user` (\n  `user_id` int unsigned NOT NULL AUTO_INCREMENT\n) ENGINE=InnoDB AUTO_INCREMENT=42 DEFAULT CHARSET=utf8mb4 COMMENT='用户表'",
			"test_task": "CREATE TABLE `test_task` (\n  `task_id` int unsigned NOT NULL AUTO_INCREMENT\n) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COMMENT='任务表'",
			"other_log": "CREATE TABLE `other_log` (`id` int)",
		},
	}
	s.UseExecutor(exec)
	return s, exec, fs, &buf
}

func syncOptions() Options {
	opts := DefaultOptions()
	opts.Prefix = "test_"
	opts.OutputDir = "out"
	return opts
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.True(t, opts.Sync)
	assert.True(t, opts.Log)
	assert.Equal(t, "sql", opts.OutputDir)
}

func TestPreview(t *testing.T) {
	s := New(Options{Prefix: "test_"})

	sql, err := s.Preview(userTables())
	require.NoError(t, err)

	parts := strings.Split(sql, "\n\n")
	require.Len(t, parts, 3)
	assert.True(t, strings.HasPrefix(parts[0], "CREATE TABLE `test_user` ("))
	assert.True(t, strings.HasPrefix(parts[1], "CREATE TABLE `test_task` ("))
	assert.Equal(t, "", parts[2])
	assert.True(t, strings.HasSuffix(sql, ";\n\n"))
}

func TestPreviewEmpty(t *testing.T) {
	sql, err := New(Options{}).Preview(core.NewOrderedMap[*core.Table]())
	require.NoError(t, err)
	assert.Empty(t, sql)
}

func TestPreviewUnsupportedType(t *testing.T) {
	tables := core.NewOrderedMap[*core.Table]()
	tbl := core.NewTable("c")
	tbl.Fields.Set("x", nil)
	tables.Set("t", tbl)

	_, err := New(Options{}).Preview(tables)
	assert.ErrorIs(t, err, core.ErrUnsupportedFieldType)
}

func TestSyncDropsCreatesAndExports(t *testing.T) {
	s, exec, fs, out := newTestSyncer(syncOptions())

	require.NoError(t, s.Sync(context.Background(), userTables()))

	require.Len(t, exec.executed, 4)
	assert.Equal(t, "DROP TABLE IF EXISTS `test_user`;", exec.executed[0])
	assert.True(t, strings.HasPrefix(exec.executed[1], "CREATE TABLE `test_user`"))
	assert.Equal(t, "DROP TABLE IF EXISTS `test_task`;", exec.executed[2])
	assert.True(t, strings.HasPrefix(exec.executed[3], "CREATE TABLE `test_task`"))

	path := filepath.Join("out", "test.sql")
	assert.Equal(t, path, s.ExportPath())
	assert.Equal(t, []string{"out"}, fs.dirs)
	want := "CREATE TABLE `test_user` (\n  `user_id` int unsigned NOT NULL AUTO_INCREMENT\n) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COMMENT='用户表';\n\n" +
		"CREATE TABLE `test_task` (\n  `task_id` int unsigned NOT NULL AUTO_INCREMENT\n) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COMMENT='任务表';\n\n"
	assert.Equal(t, want, fs.files[path])

	assert.Equal(t, 1, exec.closed)
	assert.Contains(t, out.String(), "[DANGER] DROP TABLE will permanently delete")
	assert.Contains(t, out.String(), "Created table test_task")
	assert.Contains(t, out.String(), "Wrote "+path)
}

func TestSyncExportsEveryPrefixedServerTable(t *testing.T) {
	s, exec, fs, _ := newTestSyncer(syncOptions())
	exec.tables = append(exec.tables, "test_extra_other")
	exec.ddl["test_extra_other"] = "CREATE TABLE `test_extra_other` (`id` int) ENGINE=InnoDB AUTO_INCREMENT=7 COMMENT='old'"

	require.NoError(t, s.Sync(context.Background(), userTables()))

	export := fs.files[filepath.Join("out", "test.sql")]
	assert.True(t, strings.HasSuffix(export, "CREATE TABLE `test_extra_other` (`id` int) ENGINE=InnoDB COMMENT='old';\n\n"), export)
	assert.NotContains(t, export, "AUTO_INCREMENT=")
	assert.NotContains(t, export, "other_log")
	assert.Equal(t, 3, strings.Count(export, "CREATE TABLE"))
}

func TestOSFileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	var fs OSFileSystem

	require.NoError(t, fs.MkdirAll(dir))
	path := filepath.Join(dir, "x.sql")
	require.NoError(t, fs.WriteFile(path, []byte("one")))
	require.NoError(t, fs.WriteFile(path, []byte("two")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestSyncWithoutDrop(t *testing.T) {
	opts := syncOptions()
	opts.Sync = false
	s, exec, _, out := newTestSyncer(opts)

	require.NoError(t, s.Sync(context.Background(), userTables()))

	require.Len(t, exec.executed, 2)
	for _, stmt := range exec.executed {
		assert.True(t, strings.HasPrefix(stmt, "CREATE TABLE"))
	}
	assert.NotContains(t, out.String(), "DANGER")
}

func TestSyncLogDisabled(t *testing.T) {
	opts := syncOptions()
	opts.Log = false
	s, _, _, out := newTestSyncer(opts)

	require.NoError(t, s.Sync(context.Background(), userTables()))
	assert.Empty(t, out.String())
}

func TestSyncNotConnected(t *testing.T) {
	s := New(syncOptions())
	err := s.Sync(context.Background(), userTables())
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSyncExecFailureReleasesConnection(t *testing.T) {
	s, exec, fs, _ := newTestSyncer(syncOptions())
	exec.failOn = "CREATE TABLE `test_task`"

	err := s.Sync(context.Background(), userTables())
	require.ErrorIs(t, err, ErrConnection)
	assert.Contains(t, err.Error(), "test_task")

	assert.Len(t, exec.executed, 3)
	assert.Empty(t, fs.files)
	assert.Equal(t, 1, exec.closed)
	assert.NoError(t, s.Close())
}

func TestSyncCompileFailureHasNoSideEffects(t *testing.T) {
	s, exec, fs, _ := newTestSyncer(syncOptions())
	tables := userTables()
	bad := core.NewTable("c")
	bad.Indexes.Set("i", nil)
	tables.Set("bad", bad)

	err := s.Sync(context.Background(), tables)
	assert.ErrorIs(t, err, core.ErrUnsupportedIndexType)
	assert.Empty(t, exec.executed)
	assert.Empty(t, fs.files)
	assert.Equal(t, 1, exec.closed)
}

func TestSyncVerifyAcceptsGeneratedStatements(t *testing.T) {
	opts := syncOptions()
	opts.Verify = true
	s, exec, _, _ := newTestSyncer(opts)

	require.NoError(t, s.Sync(context.Background(), userTables()))
	assert.Len(t, exec.executed, 4)
}

func TestSyncVerifyRejectsBrokenStatement(t *testing.T) {
	opts := syncOptions()
	opts.Verify = true
	s, exec, _, _ := newTestSyncer(opts)

	tables := core.NewOrderedMap[*core.Table]()
	tbl := core.NewTable("c")
	tbl.Fields.Set("x", &core.CustomField{Raw: "int); DROP TABLE `victim`; --"})
	tables.Set("t", tbl)

	err := s.Sync(context.Background(), tables)
	assert.ErrorIs(t, err, ErrInvalidStatement)
	assert.Empty(t, exec.executed)
}

func TestSyncFileWriteFailure(t *testing.T) {
	s, _, fs, _ := newTestSyncer(syncOptions())
	fs.err = errors.New("read-only")

	err := s.Sync(context.Background(), userTables())
	assert.ErrorIs(t, err, ErrFileWrite)
}

func TestSyncExportMissingTable(t *testing.T) {
	s, exec, _, _ := newTestSyncer(syncOptions())
	exec.tables = append(exec.tables, "test_ghost")

	err := s.Sync(context.Background(), userTables())
	assert.ErrorIs(t, err, ErrConnection)
}

func TestExportPath(t *testing.T) {
	tests := []struct {
		prefix, dir, want string
	}{
		{"test_", "sql", filepath.Join("sql", "test.sql")},
		{"app_v2_", "out", filepath.Join("out", "app.sql")},
		{"plain", "", "plain.sql"},
		{"", "sql", filepath.Join("sql", ".sql")},
	}
	for _, tt := range tests {
		s := New(Options{Prefix: tt.prefix, OutputDir: tt.dir})
		assert.Equal(t, tt.want, s.ExportPath(), tt.prefix)
	}
}

func TestStripAutoIncrement(t *testing.T) {
	assert.Equal(t, "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
		stripAutoIncrement("ENGINE=InnoDB AUTO_INCREMENT=7 DEFAULT CHARSET=utf8mb4"))
	assert.Equal(t, "a b AUTO_INCREMENT=2 c",
		stripAutoIncrement("a AUTO_INCREMENT=1 b AUTO_INCREMENT=2 c"))
	assert.Equal(t, "ENGINE=InnoDB AUTO_INCREMENT=7",
		stripAutoIncrement("ENGINE=InnoDB AUTO_INCREMENT=7"))
	assert.Equal(t, "`id` int NOT NULL AUTO_INCREMENT,",
		stripAutoIncrement("`id` int NOT NULL AUTO_INCREMENT,"))
}

func TestCloseIsIdempotent(t *testing.T) {
	s, exec, _, _ := newTestSyncer(syncOptions())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, exec.closed)
}
