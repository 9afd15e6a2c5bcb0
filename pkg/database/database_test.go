package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/richxcame/restaurant-backoffice/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{"postgres numbers placeholders", DialectPostgres, "UPDATE receipts SET status = ? WHERE id = ?", "UPDATE receipts SET status = $1 WHERE id = $2"},
		{"sqlite keeps question marks", DialectSQLite, "SELECT * FROM reviews WHERE id = ?", "SELECT * FROM reviews WHERE id = ?"},
		{"no placeholders", DialectPostgres, "SELECT 1", "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Rebind(tt.dialect, tt.query))
		})
	}
}

func TestOpen_MemoryDriverHasNoSQLBackend(t *testing.T) {
	_, err := Open(context.Background(), &config.DatabaseConfig{Driver: "memory"})
	assert.Error(t, err)
}

func TestWrapAndClose(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectClose()

	db := Wrap(sqlDB, DialectPostgres)
	assert.Equal(t, "SELECT $1", db.Rebind("SELECT ?"))
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrationsEmbedded(t *testing.T) {
	for _, dir := range []string{"migrations/postgres", "migrations/sqlite"} {
		entries, err := migrationsFS.ReadDir(dir)
		require.NoError(t, err)
		assert.NotEmpty(t, entries, dir)
	}
}

func TestJSONText(t *testing.T) {
	var nilItems []string
	text, err := JSONText(nilItems)
	require.NoError(t, err)
	assert.Equal(t, "[]", text)

	text, err = JSONText([]string{"Latte", "Croissant"})
	require.NoError(t, err)
	assert.Equal(t, `["Latte","Croissant"]`, text)

	_, err = JSONText(make(chan int))
	assert.Error(t, err)
}

func TestScanJSON(t *testing.T) {
	var items []string
	require.NoError(t, ScanJSON(sql.NullString{String: `["Latte"]`, Valid: true}, &items))
	assert.Equal(t, []string{"Latte"}, items)

	var untouched []string
	require.NoError(t, ScanJSON(sql.NullString{}, &untouched))
	assert.Nil(t, untouched)

	assert.Error(t, ScanJSON(sql.NullString{String: "{", Valid: true}, &items))
}

func TestNullableRoundTrip(t *testing.T) {
	name := "Blue Bottle"
	amount := 8.75
	when := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, &name, StringPtr(NullString(&name)))
	assert.Equal(t, &amount, FloatPtr(NullFloat(&amount)))
	assert.Equal(t, &when, TimePtr(NullTime(&when)))

	assert.Nil(t, StringPtr(NullString(nil)))
	assert.Nil(t, FloatPtr(NullFloat(nil)))
	assert.Nil(t, TimePtr(NullTime(nil)))
}

func TestPoolConfig(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host: "db", Port: "5432", User: "app", Password: "pw", DBName: "backoffice", SSLMode: "disable",
		MaxConns: 10, MinConns: 20,
	}

	pc, err := poolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(10), pc.MaxConns)
	assert.NotEqual(t, int32(20), pc.MinConns)
	assert.Equal(t, "backoffice", pc.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "db", pc.ConnConfig.Host)
}
