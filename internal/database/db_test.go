package database

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthouse/theaters/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "arthouse",
		DBPass: "p@ss:word",
		DBHost: "db.internal",
		DBPort: "3306",
		DBName: "theaters",
	}

	dsn := DSN(cfg)
	assert.Contains(t, dsn, "charset=utf8mb4")

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "arthouse", parsed.User)
	assert.Equal(t, "p@ss:word", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db.internal:3306", parsed.Addr)
	assert.Equal(t, "theaters", parsed.DBName)
	assert.True(t, parsed.ParseTime)
}
