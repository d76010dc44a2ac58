package db_test

import (
	"context"
	"testing"

	rootdb "github.com/garnizeh/interviewer/db"
	dbpkg "github.com/garnizeh/interviewer/internal/db"
)

func TestMigrate_AppliesEmbeddedMigrations(t *testing.T) {
	ctx := context.Background()
	d, err := dbpkg.New(ctx, memoryDSN(t))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer d.Close()

	if err := dbpkg.Migrate(ctx, d, rootdb.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// users table must exist and accept rows
	if _, err := d.Exec(ctx, `INSERT INTO users (name, email, updated, password_hash) VALUES (?, ?, ?, ?)`,
		"Ana", "ana@example.com", 0, "hash"); err != nil {
		t.Fatalf("insert into users: %v", err)
	}

	var applied int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if applied == 0 {
		t.Fatal("no migrations recorded")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	d, err := dbpkg.New(ctx, memoryDSN(t))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer d.Close()

	if err := dbpkg.Migrate(ctx, d, rootdb.Migrations); err != nil {
		t.Fatalf("first migrate: %v", err)
	}

	var before int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&before); err != nil {
		t.Fatalf("count: %v", err)
	}

	if err := dbpkg.Migrate(ctx, d, rootdb.Migrations); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var after int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&after); err != nil {
		t.Fatalf("count: %v", err)
	}
	if before != after {
		t.Fatalf("migration reapplied: before=%d after=%d", before, after)
	}
}
