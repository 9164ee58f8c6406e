package mysql

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
)

func TestDetectFlavor(t *testing.T) {
	assert.Equal(t, FlavorMariaDB, detectFlavor("mariadb.org binary distribution"))
	assert.Equal(t, FlavorTiDB, detectFlavor("TiDB Server (Apache License 2.0)"))
	assert.Equal(t, FlavorMySQL, detectFlavor("MySQL Community Server - GPL"))
}

func TestTrimVersion(t *testing.T) {
	assert.Equal(t, "8.0.36", trimVersion("8.0.36"))
	assert.Equal(t, "10.11.6", trimVersion("10.11.6-MariaDB-1:10.11.6+maria~ubu2204"))
	assert.Equal(t, "", trimVersion(""))
}

func TestCloseIsNilSafe(t *testing.T) {
	var c *Conn
	assert.NoError(t, c.Close())
	assert.NoError(t, (&Conn{}).Close())
}

func TestOpenFailsOnUnreachableServer(t *testing.T) {
	_, err := Open(context.Background(), "invalid:user@tcp(127.0.0.1:1)/nope?timeout=1s")
	assert.Error(t, err)
}

func TestConnIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dsn := setupMySQL(t)
	ctx := context.Background()

	conn, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	t.Run("server info", func(t *testing.T) {
		info, err := conn.Server(ctx)
		require.NoError(t, err)
		assert.Equal(t, FlavorMySQL, info.Flavor)
		assert.True(t, strings.HasPrefix(info.Version, "8.0"))
		assert.Equal(t, "testdb", info.Database)
	})

	t.Run("exec, list and show create", func(t *testing.T) {
		require.NoError(t, conn.Exec(ctx, "CREATE TABLE `app_user` (`user_id` int(11) unsigned NOT NULL AUTO_INCREMENT, PRIMARY KEY (`user_id`)) ENGINE=innodb COMMENT='用户表'"))
		require.NoError(t, conn.Exec(ctx, "CREATE TABLE `other_log` (`id` int) ENGINE=myisam"))

		tables, err := conn.Tables(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"app_user", "other_log"}, tables)

		ddl, err := conn.ShowCreateTable(ctx, "app_user")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(ddl, "CREATE TABLE `app_user`"))
		assert.Contains(t, ddl, "COMMENT='用户表'")
		assert.NotContains(t, ddl, ";")
	})

	t.Run("exec error", func(t *testing.T) {
		assert.Error(t, conn.Exec(ctx, "CREATE TABLE broken ("))
	})

	t.Run("show create missing table", func(t *testing.T) {
		_, err := conn.ShowCreateTable(ctx, "missing")
		assert.Error(t, err)
	})

	t.Run("double close is safe", func(t *testing.T) {
		c, err := Open(ctx, dsn)
		require.NoError(t, err)
		require.NoError(t, c.Close())
		assert.NoError(t, c.Close())
	})
}

func setupMySQL(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcmysql.Run(ctx, "mysql:8.0",
		tcmysql.WithDatabase("testdb"),
		tcmysql.WithUsername("root"),
		tcmysql.WithPassword("testpass"),
	)
	require.NoError(t, err, "failed to start MySQL container")

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err, "failed to get connection string")
	return dsn
}
