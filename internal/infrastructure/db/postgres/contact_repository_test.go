package postgres

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexiot/site-backend/internal/core/domain"
)

// newTestPool connects to DATABASE_URL inside a throwaway schema holding the
// contact_submissions table. Tests are skipped when DATABASE_URL is unset.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	admin, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := admin.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema)); err != nil {
		admin.Close()
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
		admin.Close()
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	cfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	migration, err := os.ReadFile("../../../../migrations/001_contact_submissions.up.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if _, err := pool.Exec(ctx, string(migration)); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	return pool
}

func assertNoAcquiredConns(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if n := pool.Stat().AcquiredConns(); n != 0 {
		t.Fatalf("expected every connection released, %d still acquired", n)
	}
}

func TestContactRepository_Insert(t *testing.T) {
	pool := newTestPool(t)
	repo := NewContactRepository(pool)
	ctx := context.Background()

	before := time.Now().Add(-time.Minute)
	s := &domain.ContactSubmission{Name: "A", Email: "a@b.com", Subject: "S", Message: "M"}
	if err := repo.Insert(ctx, s); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if s.ID <= 0 {
		t.Errorf("expected generated id, got %d", s.ID)
	}
	if s.CreatedAt.Before(before) {
		t.Errorf("unexpected created_at %v", s.CreatedAt)
	}
	assertNoAcquiredConns(t, pool)

	var phoneIsNull bool
	if err := pool.QueryRow(ctx,
		"SELECT phone IS NULL FROM contact_submissions WHERE id = $1", s.ID,
	).Scan(&phoneIsNull); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !phoneIsNull {
		t.Error("expected phone to be stored as NULL")
	}
}

func TestContactRepository_InsertFailureReleasesConnection(t *testing.T) {
	pool := newTestPool(t)
	repo := NewContactRepository(pool)
	ctx := context.Background()

	// Postgres rejects NUL bytes in text columns, failing inside the transaction.
	s := &domain.ContactSubmission{Name: "A", Email: "a@b.com", Subject: "S", Message: "bad\x00byte"}
	if err := repo.Insert(ctx, s); err == nil {
		t.Fatal("expected insert error")
	}
	assertNoAcquiredConns(t, pool)

	var count int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM contact_submissions").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no rows after failed insert, got %d", count)
	}

	// The pool is still usable after the failure.
	if err := repo.Insert(ctx, &domain.ContactSubmission{Name: "A", Email: "a@b.com", Subject: "S", Message: "M"}); err != nil {
		t.Fatalf("insert after failure: %v", err)
	}
	assertNoAcquiredConns(t, pool)
}

func TestContactRepository_List(t *testing.T) {
	pool := newTestPool(t)
	repo := NewContactRepository(pool)
	ctx := context.Background()

	phone := "555"
	for i, p := range []*string{nil, &phone, nil} {
		s := &domain.ContactSubmission{Name: fmt.Sprintf("n%d", i), Email: "a@b.com", Phone: p, Subject: "S", Message: "M"}
		if err := repo.Insert(ctx, s); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	items, err := repo.List(ctx, domain.ContactListOptions{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "n2" || items[1].Name != "n1" {
		t.Errorf("expected newest first, got %s, %s", items[0].Name, items[1].Name)
	}
	if items[1].Phone == nil || *items[1].Phone != "555" {
		t.Errorf("expected phone on n1")
	}
	assertNoAcquiredConns(t, pool)
}
