package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationFilesExist(t *testing.T) {
	migrationsDir := "../../migrations"

	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	expectedMigrations := []string{
		"00001_create_users_table.sql",
		"00002_create_refresh_tokens_table.sql",
		"00003_create_products_table.sql",
		"00004_create_orders_table.sql",
		"00005_create_order_items_table.sql",
		"00006_create_completed_orders_table.sql",
		"00007_create_updated_at_trigger.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	migrationsDir := "../../migrations"

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
			continue
		}

		contentStr := string(content)

		if !strings.Contains(contentStr, "-- +goose Up") {
			t.Errorf("Migration file %s missing '-- +goose Up' directive", file.Name())
		}
		if !strings.Contains(contentStr, "-- +goose Down") {
			t.Errorf("Migration file %s missing '-- +goose Down' directive", file.Name())
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestTriggerMigrationWrapsFunctionBody(t *testing.T) {
	content, err := os.ReadFile("../../migrations/00007_create_updated_at_trigger.sql")
	if err != nil {
		t.Fatalf("Failed to read trigger migration: %v", err)
	}

	// Function bodies contain semicolons, so goose needs the statement markers.
	contentStr := string(content)
	if !strings.Contains(contentStr, "-- +goose StatementBegin") {
		t.Error("Trigger migration missing '-- +goose StatementBegin' directive")
	}
	if !strings.Contains(contentStr, "-- +goose StatementEnd") {
		t.Error("Trigger migration missing '-- +goose StatementEnd' directive")
	}
}

func TestSchemaEnforcesDomainConstraints(t *testing.T) {
	cases := []struct {
		file string
		want string
		desc string
	}{
		{"00001_create_users_table.sql", "role IN ('admin', 'customer')", "closed role set"},
		{"00003_create_products_table.sql", "price >= 0", "non-negative price"},
		{"00004_create_orders_table.sql", "status IN (", "closed status set"},
		{"00005_create_order_items_table.sql", "quantity >= 1", "quantity floor"},
		{"00005_create_order_items_table.sql", "packed", "packed flag"},
	}

	for _, tc := range cases {
		content, err := os.ReadFile(filepath.Join("../../migrations", tc.file))
		if err != nil {
			t.Errorf("Failed to read %s: %v", tc.file, err)
			continue
		}
		if !strings.Contains(string(content), tc.want) {
			t.Errorf("%s: expected the %s constraint (%q)", tc.file, tc.desc, tc.want)
		}
	}
}
