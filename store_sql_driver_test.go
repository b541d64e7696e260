package dataservice

import (
	"context"
	"strings"
	"testing"
)

func TestSQLDriverErrorsWhenMissingDSN(t *testing.T) {
	if _, err := newSQLStore(StoreConfig{SQLDriverName: "sqlite"}); err == nil {
		t.Fatalf("expected error")
	}
	store := NewSQLStore(context.Background(), "sqlite", "", "t")
	if _, _, err := store.Get(context.Background(), "k"); err == nil {
		t.Fatalf("expected error store for missing dsn")
	}
}

func TestSQLStoreKeyPrefix(t *testing.T) {
	store := &sqlStore{prefix: "p"}
	if got := store.storeKey("k"); got != "p:k" {
		t.Fatalf("unexpected store key %s", got)
	}
	bare := &sqlStore{}
	if got := bare.storeKey("k"); got != "k" {
		t.Fatalf("unexpected unprefixed key %s", got)
	}
}

func TestSQLEnsureSchemaPostgresAndMySQL(t *testing.T) {
	if _, err := newSQLStore(StoreConfig{
		SQLDriverName: "pgfake",
		SQLDSN:        "irrelevant",
		SQLTable:      "tbl",
	}); err != nil {
		t.Fatalf("pg schema should succeed: %v", err)
	}
	if _, err := newSQLStore(StoreConfig{
		SQLDriverName: "mysqlfake",
		SQLDSN:        "irrelevant",
		SQLTable:      "tbl",
	}); err != nil {
		t.Fatalf("mysql schema should succeed: %v", err)
	}
	if _, err := newSQLStore(StoreConfig{
		SQLDriverName: "postgres",
		SQLDSN:        "irrelevant",
		SQLTable:      "tbl",
	}); err != nil {
		t.Fatalf("postgres schema should succeed: %v", err)
	}
}

func TestSQLFakeDriverRecordsSchemaAndStatements(t *testing.T) {
	if _, err := newSQLStore(StoreConfig{
		SQLDriverName: "pgfake",
		SQLDSN:        "recorded",
		SQLTable:      "records",
	}); err != nil {
		t.Fatalf("store create failed: %v", err)
	}
	joined := strings.Join(pgFakeDriver.recorded(), "\n")
	if !strings.Contains(joined, "CREATE TABLE IF NOT EXISTS records") {
		t.Fatalf("expected schema statement, got %s", joined)
	}
	if !strings.Contains(joined, "SELECT v FROM records WHERE k = ") {
		t.Fatalf("expected prepared get statement, got %s", joined)
	}
	if !strings.Contains(joined, "DELETE FROM records WHERE k LIKE ") {
		t.Fatalf("expected prepared flush statement, got %s", joined)
	}
}

func TestSQLGetMissOnEmptyRows(t *testing.T) {
	store, err := newSQLStore(StoreConfig{
		SQLDriverName: "mysqlfake",
		SQLDSN:        "irrelevant",
		SQLTable:      "tbl",
	})
	if err != nil {
		t.Fatalf("store create failed: %v", err)
	}
	if _, ok, err := store.Get(context.Background(), "k"); err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}
}

func TestSQLEnsureSchemaError(t *testing.T) {
	if _, err := newSQLStore(StoreConfig{
		SQLDriverName: "pgfail",
		SQLDSN:        "irrelevant",
		SQLTable:      "tbl",
	}); err == nil {
		t.Fatalf("expected schema error")
	}
}

func TestSQLPingError(t *testing.T) {
	if _, err := newSQLStore(StoreConfig{
		SQLDriverName: "pingfail",
		SQLDSN:        "irrelevant",
	}); err == nil {
		t.Fatalf("expected ping error")
	}
}

func TestSQLTableNameValidation(t *testing.T) {
	if err := validateSQLTableName("dataservice_records; DROP TABLE users"); err == nil {
		t.Fatalf("expected invalid table name error")
	}
	if err := validateSQLTableName("public.dataservice_records"); err != nil {
		t.Fatalf("expected dotted table name to be allowed: %v", err)
	}
	if err := validateSQLTableName("  "); err == nil {
		t.Fatalf("expected blank table name error")
	}
	if _, err := newSQLStore(StoreConfig{
		SQLDriverName: "pgfake",
		SQLDSN:        "irrelevant",
		SQLTable:      "bad-name",
	}); err == nil {
		t.Fatalf("expected store creation to reject invalid table")
	}
}

func TestSQLPlaceholdersPerDialect(t *testing.T) {
	pg := &sqlStore{driverName: "pgx", table: "t"}
	if got := pg.getSQL(); got != "SELECT v FROM t WHERE k = $1" {
		t.Fatalf("unexpected pg get sql %q", got)
	}
	if !strings.Contains(pg.upsertSQL(), "ON CONFLICT (k) DO UPDATE SET v = $3") {
		t.Fatalf("unexpected pg upsert %q", pg.upsertSQL())
	}
	my := &sqlStore{driverName: "mysql", table: "t"}
	if !strings.Contains(my.upsertSQL(), "ON DUPLICATE KEY UPDATE v = ?") {
		t.Fatalf("unexpected mysql upsert %q", my.upsertSQL())
	}
	lite := &sqlStore{driverName: "sqlite", table: "t"}
	if !strings.Contains(lite.upsertSQL(), "ON CONFLICT(k)") {
		t.Fatalf("unexpected sqlite upsert %q", lite.upsertSQL())
	}
	if got := lite.deleteSQL(); got != "DELETE FROM t WHERE k = ?" {
		t.Fatalf("unexpected sqlite delete %q", got)
	}
}
