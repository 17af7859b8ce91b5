package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/go-erp-backend/internal/domain"
)

func TestGetIdempotency_NoKey_ReturnsNotFound(t *testing.T) {
	db := openTestDB(t, &domain.Idempotency{})
	rec, err := GetIdempotency(context.Background(), db, "ip:1.2.3.4", "/api/crm/customers", "   ", time.Now().UTC())
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for empty key, got (%v, %v)", rec, err)
	}
}

func TestGetIdempotency_ExpiredOrMissing_ReturnsNotFound(t *testing.T) {
	db := openTestDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	exp := &domain.Idempotency{
		ID:         "expired",
		Scope:      "u1",
		Route:      "/r",
		Key:        "k1",
		ResourceID: "x",
		Status:     201,
		CreatedAt:  now.Add(-2 * time.Hour),
		ExpiresAt:  now.Add(-time.Hour),
	}
	if err := db.Create(exp).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}

	rec, err := GetIdempotency(context.Background(), db, "u1", "/r", "k1", now)
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for expired, got (%v, %v)", rec, err)
	}
	rec2, err2 := GetIdempotency(context.Background(), db, "u1", "/r", "missing", now)
	if rec2 != nil || err2 != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for missing, got (%v, %v)", rec2, err2)
	}
}

func TestCreateIdempotency_SuccessDuplicateAndReuseAfterExpiry(t *testing.T) {
	db := openTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	ttl := 90 * time.Minute
	start := time.Now().UTC()

	rec, err := CreateIdempotency(ctx, db, "u9", "/api/finance/invoices", "k9", "inv-9", 201, ttl)
	if err != nil {
		t.Fatalf("CreateIdempotency error: %v", err)
	}
	if rec == nil || rec.ID == "" || rec.Scope != "u9" || rec.ResourceID != "inv-9" || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !(rec.ExpiresAt.After(start) && rec.ExpiresAt.Before(start.Add(2*time.Hour))) {
		t.Fatalf("unexpected ExpiresAt: %v", rec.ExpiresAt)
	}

	got, err := GetIdempotency(ctx, db, "u9", "/api/finance/invoices", "k9", time.Now().UTC())
	if err != nil || got.ResourceID != "inv-9" {
		t.Fatalf("lookup after create: %+v err=%v", got, err)
	}

	if _, err := CreateIdempotency(ctx, db, "u9", "/api/finance/invoices", "k9", "inv-X", 201, ttl); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Force expiry, then the key is usable again.
	db.Model(&domain.Idempotency{}).Where("key = ?", "k9").Update("expires_at", start.Add(-time.Minute))
	if _, err := CreateIdempotency(ctx, db, "u9", "/api/finance/invoices", "k9", "inv-10", 201, ttl); err != nil {
		t.Fatalf("expired key should be reusable: %v", err)
	}
}

func TestCreateIdempotency_Error_NoTable(t *testing.T) {
	db := openTestDB(t)
	_, err := CreateIdempotency(context.Background(), db, "uX", "/r", "kX", "x", 201, time.Minute)
	if err == nil {
		t.Fatalf("expected error when table is missing")
	}
	if err == ErrDuplicate {
		t.Fatalf("expected non-duplicate error, got ErrDuplicate")
	}
}

func TestPurgeExpiredIdempotency(t *testing.T) {
	db := openTestDB(t, &domain.Idempotency{})
	now := time.Now().UTC()
	db.Create(&domain.Idempotency{ID: "a", Scope: "s", Route: "r", Key: "1", ResourceID: "x", Status: 201, ExpiresAt: now.Add(-time.Second)})
	db.Create(&domain.Idempotency{ID: "b", Scope: "s", Route: "r", Key: "2", ResourceID: "y", Status: 201, ExpiresAt: now.Add(time.Hour)})
	n, err := PurgeExpiredIdempotency(context.Background(), db, now)
	if err != nil || n != 1 {
		t.Fatalf("purge: n=%d err=%v", n, err)
	}
}

func TestRepointIdempotency(t *testing.T) {
	db := openTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if err := RepointIdempotency(ctx, db, "ip:1", "/api/hr/employees", "k", "e-2", 201, time.Hour); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound without a record, got %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "ip:1", "/api/hr/employees", "k", "e-1", 201, time.Hour); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := RepointIdempotency(ctx, db, "ip:1", "/api/hr/employees", "k", "e-2", 201, time.Hour); err != nil {
		t.Fatalf("repoint: %v", err)
	}
	got, err := GetIdempotency(ctx, db, "ip:1", "/api/hr/employees", "k", time.Now().UTC())
	if err != nil || got.ResourceID != "e-2" {
		t.Fatalf("after repoint: %+v err=%v", got, err)
	}
}
