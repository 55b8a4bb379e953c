package database

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestListMigrationFiles(t *testing.T) {
	dir := t.TempDir()

	// Written out of order; discovery must sort by name so the numeric
	// prefixes run in sequence.
	for _, name := range []string{"002_seed_menu.sql", "001_create_tables.sql", "010_add_index.sql"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1"), 0o644); err != nil {
			t.Fatalf("failed to write migration file: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a migration"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "archive"), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	files, err := ListMigrationFiles(dir)
	if err != nil {
		t.Fatalf("ListMigrationFiles returned error: %v", err)
	}

	want := []string{"001_create_tables.sql", "002_seed_menu.sql", "010_add_index.sql"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("ListMigrationFiles() = %v, want %v", files, want)
	}
}

func TestListMigrationFiles_MissingDir(t *testing.T) {
	if _, err := ListMigrationFiles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestListMigrationFiles_ShippedMigrations(t *testing.T) {
	files, err := ListMigrationFiles(filepath.Join("..", "..", "migrations"))
	if err != nil {
		t.Fatalf("ListMigrationFiles returned error: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("expected shipped migration files")
	}
	if files[0] != "001_create_tables.sql" {
		t.Errorf("first migration = %s, want 001_create_tables.sql", files[0])
	}
}
