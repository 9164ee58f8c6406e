package mysql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userDDL = "CREATE TABLE `test_user` (\n" +
	"  `user_id` int(11) unsigned NOT NULL AUTO_INCREMENT COMMENT '主键',\n" +
	"  `name` varchar(40) NOT NULL DEFAULT '' COMMENT '用户名',\n" +
	"  `price` decimal(10, 2) unsigned NOT NULL DEFAULT 0 COMMENT '价格',\n" +
	"  `update_time` datetime NULL ON UPDATE CURRENT_TIMESTAMP COMMENT '更新时间',\n" +
	"  `create_time` datetime NOT NULL DEFAULT CURRENT_TIMESTAMP COMMENT '创建时间',\n" +
	"  PRIMARY KEY (`user_id`),\n" +
	"  UNIQUE KEY `uni:name` (`name`) COMMENT '唯一',\n" +
	"  KEY `nor:name_price` (`name`,`price`) COMMENT 'it''s' \n" +
	") ENGINE=innodb COMMENT='用户表';"

func TestParseCreateTable(t *testing.T) {
	table, err := NewParser().ParseCreateTable(userDDL)
	require.NoError(t, err)

	assert.Equal(t, "test_user", table.Name)
	assert.Equal(t, "innodb", table.Engine)
	assert.Equal(t, "用户表", table.Comment)
	require.Len(t, table.Columns, 5)

	id := table.FindColumn("user_id")
	require.NotNil(t, id)
	assert.Contains(t, id.Type, "int")
	assert.Contains(t, id.Type, "unsigned")
	assert.False(t, id.Nullable)
	assert.True(t, id.AutoIncrement)
	assert.Nil(t, id.Default)
	assert.Equal(t, "主键", id.Comment)

	name := table.FindColumn("name")
	require.NotNil(t, name)
	assert.Contains(t, name.Type, "varchar(40)")
	require.NotNil(t, name.Default)
	assert.Equal(t, "", *name.Default)

	update := table.FindColumn("update_time")
	require.NotNil(t, update)
	assert.True(t, update.Nullable)
	require.NotNil(t, update.OnUpdate)
	assert.True(t, strings.HasPrefix(strings.ToUpper(*update.OnUpdate), "CURRENT_TIMESTAMP"))

	create := table.FindColumn("create_time")
	require.NotNil(t, create)
	assert.False(t, create.Nullable)
	require.NotNil(t, create.Default)
	assert.True(t, strings.HasPrefix(strings.ToUpper(*create.Default), "CURRENT_TIMESTAMP"))

	assert.Equal(t, []string{"user_id"}, table.PrimaryKey())
	require.Len(t, table.Indexes, 3)
	assert.Equal(t, IndexUnique, table.Indexes[1].Kind)
	assert.Equal(t, "uni:name", table.Indexes[1].Name)
	assert.Equal(t, "唯一", table.Indexes[1].Comment)
	assert.Equal(t, IndexKey, table.Indexes[2].Kind)
	assert.Equal(t, []string{"name", "price"}, table.Indexes[2].Columns)
	assert.Equal(t, "it's", table.Indexes[2].Comment)
}

func TestParseCreateTableMyISAM(t *testing.T) {
	table, err := NewParser().ParseCreateTable("CREATE TABLE `t` (`a` text COMMENT 'a') ENGINE=MyISAM COMMENT='t';")
	require.NoError(t, err)
	assert.Equal(t, "myisam", table.Engine)
	assert.Empty(t, table.PrimaryKey())
}

func TestParseCreateTableRejects(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"syntax error", "CREATE TABLE `t` (`a` int,"},
		{"not create table", "DROP TABLE `t`;"},
		{"two statements", "CREATE TABLE a (id int); CREATE TABLE b (id int);"},
		{"empty", "  "},
	}
	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseCreateTable(tt.sql)
			assert.ErrorIs(t, err, ErrNotCreateTable)
		})
	}
}

func TestParseDump(t *testing.T) {
	dump := "CREATE TABLE `app_a` (\n  `a_id` int(11) NOT NULL AUTO_INCREMENT,\n  PRIMARY KEY (`a_id`)\n) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COMMENT='A';\n\n" +
		"CREATE TABLE `app_b` (\n  `b_id` int(11) NOT NULL\n) ENGINE=MyISAM DEFAULT CHARSET=utf8mb4 COMMENT='B';\n\n"

	tables, err := NewParser().ParseDump(dump)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "app_a", tables[0].Name)
	assert.Equal(t, "A", tables[0].Comment)
	assert.Equal(t, "app_b", tables[1].Name)
	assert.Equal(t, "myisam", tables[1].Engine)
}

func TestParseDumpSyntaxError(t *testing.T) {
	_, err := NewParser().ParseDump("CREATE TABLE (")
	assert.Error(t, err)
}

func TestTryUnquoteSQLStringLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"'abc'", "abc", true},
		{"'it''s'", "it's", true},
		{"_UTF8MB4'abc'", "abc", true},
		{"N'abc'", "abc", true},
		{"0", "", false},
		{"CURRENT_TIMESTAMP()", "", false},
		{"x'abc'", "", false},
	}
	for _, tt := range tests {
		got, ok := tryUnquoteSQLStringLiteral(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
