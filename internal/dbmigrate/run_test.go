package dbmigrate

import (
	"context"
	"strings"
	"testing"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := EmbeddedMigrations()
	if err != nil {
		t.Fatalf("glob embedded migrations: %v", err)
	}
	if len(files) < 2 {
		t.Fatalf("expected at least 2 migrations, got %v", files)
	}
	if files[0] != "00001_init.sql" {
		t.Fatalf("expected 00001_init.sql first, got %s", files[0])
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	if err := Run(context.Background(), "up", "", ""); err == nil {
		t.Fatal("expected error for empty database URL")
	}

	err := Run(context.Background(), "redo-all", "postgres://localhost/db", "")
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported command error, got %v", err)
	}
}

func TestIsSupported(t *testing.T) {
	for _, c := range []string{"up", "down", "status", "version"} {
		if !IsSupported(c) {
			t.Fatalf("expected %s to be supported", c)
		}
	}
	if IsSupported("reset") {
		t.Fatal("reset must not be supported")
	}
}
