package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage/sqlite"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setupEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ARISAN_CONFIG", "")
	return filepath.Join(t.TempDir(), "arisan.db")
}

func TestMigrate(t *testing.T) {
	db := setupEnv(t)
	out, err := runCLI(t, "--db", db, "migrate")
	if err != nil {
		t.Fatalf("migrate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "schema version 1 (dirty=false)") {
		t.Errorf("output = %q", out)
	}
}

func TestSettingsSetAndGet(t *testing.T) {
	db := setupEnv(t)

	out, err := runCLI(t, "--db", db, "settings", "get", "--month", "2024-7")
	if err != nil {
		t.Fatalf("settings get failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2024-7 (default)") || !strings.Contains(out, "50000") {
		t.Errorf("default output = %q", out)
	}

	out, err = runCLI(t, "--db", db, "settings", "set", "--month", "2024-7", "--main", "20000", "--cash", "5000")
	if err != nil {
		t.Fatalf("settings set failed: %v\n%s", err, out)
	}

	out, err = runCLI(t, "--db", db, "settings", "get", "--month", "2024-8")
	if err != nil {
		t.Fatalf("settings get failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2024-8 (previous)") || !strings.Contains(out, "20000") || !strings.Contains(out, "5000") {
		t.Errorf("previous-month output = %q", out)
	}

	if _, err := runCLI(t, "--db", db, "settings", "set", "--month", "2024-7", "--sick", "-1"); err == nil {
		t.Error("expected negative amount to be rejected")
	}
}

func TestReconcileAndDraw(t *testing.T) {
	db := setupEnv(t)

	store, err := sqlite.New(db)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()
	member := &models.Member{Name: "Ani"}
	if err := store.CreateMember(ctx, member); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}
	group := &models.Group{Name: "Arisan Keluarga", MemberIDs: []string{member.ID}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	store.Close()

	out, err := runCLI(t, "--db", db, "reconcile", "--group", group.ID, "--month", "2024-7")
	if err != nil {
		t.Fatalf("reconcile failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "created 1, updated 0") {
		t.Errorf("reconcile output = %q", out)
	}

	out, err = runCLI(t, "--db", db, "draw", "--group", group.ID)
	if err != nil {
		t.Fatalf("draw failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "winner: Ani") || !strings.Contains(out, "0 left") {
		t.Errorf("draw output = %q", out)
	}

	if _, err := runCLI(t, "--db", db, "draw", "--group", group.ID); err == nil {
		t.Error("expected exhausted error on second draw")
	}
}
