package sqlite_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	rootdb "github.com/garnizeh/interviewer/db"
	dbpkg "github.com/garnizeh/interviewer/internal/db"
	sqlite "github.com/garnizeh/interviewer/internal/repository/sqlite"
	"github.com/garnizeh/interviewer/pkg/models"
)

func setupRepo(t *testing.T) *sqlite.SQLiteRepo {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	d, err := dbpkg.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := dbpkg.Migrate(ctx, d, rootdb.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return sqlite.New(d, nil)
}

func TestUserCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	// nil user should error
	if _, err := repo.CreateUser(ctx, nil); err == nil {
		t.Fatalf("expected error when creating nil user")
	}

	// non-existing ID should return nil, nil
	got, err := repo.GetByID(ctx, 9999)
	if err != nil {
		t.Fatalf("unexpected error for missing id: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing id, got %#v", got)
	}

	id, err := repo.CreateUser(ctx, &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "hash-1"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	u, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if u == nil || u.Name != "Ana" || u.Email != "ana@example.com" || u.PasswordHash != "hash-1" {
		t.Fatalf("user = %#v", u)
	}
	if u.Updated == 0 {
		t.Fatal("updated timestamp not set")
	}

	u.Name = "Ana Maria"
	u.PasswordHash = "hash-2"
	if err := repo.UpdateUser(ctx, u); err != nil {
		t.Fatalf("update user: %v", err)
	}

	u2, err := repo.GetByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u2 == nil || u2.Name != "Ana Maria" || u2.PasswordHash != "hash-2" {
		t.Fatalf("user after update = %#v", u2)
	}

	if err := repo.DeleteUser(ctx, id); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	gone, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected nil after delete, got %#v", gone)
	}
}

func TestUpdateUser_Nil(t *testing.T) {
	repo := setupRepo(t)
	if err := repo.UpdateUser(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil user")
	}
}

func TestGetByEmail_Missing(t *testing.T) {
	repo := setupRepo(t)
	u, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u != nil {
		t.Fatalf("expected nil, got %#v", u)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateUser(ctx, &models.User{Name: "A", Email: "dup@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.CreateUser(ctx, &models.User{Name: "B", Email: "dup@example.com"}); err == nil {
		t.Fatal("expected unique constraint violation")
	}
}
