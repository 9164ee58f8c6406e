package mysql

import (
	"context"
	"fmt"
	"strings"
)

// Flavor is the server family behind a MySQL-protocol connection.
type Flavor string

const (
	FlavorMySQL   Flavor = "mysql"
	FlavorMariaDB Flavor = "mariadb"
	FlavorTiDB    Flavor = "tidb"
)

// ServerInfo describes the connected server.
type ServerInfo struct {
	Flavor   Flavor
	Version  string
	Database string
}

func (s ServerInfo) String() string {
	return fmt.Sprintf("%s %s (database %q)", s.Flavor, s.Version, s.Database)
}

// Server detects the server flavor and version and the current database.
func (c *Conn) Server(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo
	var database *string
	if err := c.db.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&database); err != nil {
		return info, fmt.Errorf("select database: %w", err)
	}
	if database != nil {
		info.Database = *database
	}

	var varName, comment string
	err := c.db.QueryRowContext(ctx, "SHOW VARIABLES LIKE 'version_comment'").Scan(&varName, &comment)
	if err != nil {
		return info, fmt.Errorf("detect server: %w", err)
	}
	info.Flavor = detectFlavor(comment)
	info.Version = c.version(ctx)
	return info, nil
}

func detectFlavor(versionComment string) Flavor {
	comment := strings.ToLower(versionComment)
	switch {
	case strings.Contains(comment, "mariadb"):
		return FlavorMariaDB
	case strings.Contains(comment, "tidb"):
		return FlavorTiDB
	default:
		return FlavorMySQL
	}
}

func (c *Conn) version(ctx context.Context) string {
	var version string
	_ = c.db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version)
	return trimVersion(version)
}

func trimVersion(version string) string {
	if idx := strings.Index(version, "-"); idx > 0 {
		version = version[:idx]
	}
	return version
}
