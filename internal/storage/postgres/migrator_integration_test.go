package postgres

import (
	"context"
	"testing"
	"time"
)

func TestMigratorIntegration_UpDownUp(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	version, _, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("migration status: %v", err)
	}
	if version == 0 {
		t.Fatal("expected schema to be migrated")
	}

	if err := store.MigrateDown(ctx, 1); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	downVersion, _, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("migration status after down: %v", err)
	}
	if downVersion >= version {
		t.Fatalf("expected version below %d after down, got %d", version, downVersion)
	}

	if err := store.MigrateUp(ctx, 0); err != nil {
		t.Fatalf("migrate up again: %v", err)
	}
	upVersion, _, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("migration status after up: %v", err)
	}
	if upVersion != version {
		t.Fatalf("expected version %d restored, got %d", version, upVersion)
	}
}
