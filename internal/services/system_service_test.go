package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/repo"
)

func TestSystem_Logs_LimitAndMissingTable(t *testing.T) {
	db := newTestDB(t)
	s := NewSystemService(db, nil)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < MaxLogLimit+5; i++ {
		require.NoError(t, repo.InsertActivity(ctx, db, &domain.ActivityLog{
			ID: fmt.Sprint(i), Action: "Created Product", Module: "Inventory", Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}
	assert.Len(t, s.Logs(ctx, 0), DefaultLogLimit)
	assert.Len(t, s.Logs(ctx, 3), 3)
	assert.Len(t, s.Logs(ctx, 10000), MaxLogLimit)
	assert.Equal(t, fmt.Sprint(MaxLogLimit+4), s.Logs(ctx, 1)[0].ID)

	require.NoError(t, db.Migrator().DropTable(&domain.ActivityLog{}))
	logs := s.Logs(ctx, 10)
	require.NotNil(t, logs)
	assert.Empty(t, logs)
}

func TestSystem_CompanyProfile_DefaultThenSaved(t *testing.T) {
	db := newTestDB(t)
	s := NewSystemService(db, nil)
	ctx := context.Background()

	p, err := s.CompanyProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Financa Global", p.Name)
	assert.Equal(t, "Financa Technologies Pvt Ltd", p.LegalName)
	assert.Equal(t, "admin@financa.com", p.Email)

	_, err = s.SaveCompanyProfile(ctx, &domain.CompanyProfile{Name: "Acme", TimeZone: "UTC"})
	require.NoError(t, err)
	p, err = s.CompanyProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", p.Name)
	assert.Equal(t, "UTC", p.TimeZone)
	assert.Empty(t, p.LegalName, "PUT replaces the whole profile")

	_, err = s.SaveCompanyProfile(ctx, &domain.CompanyProfile{})
	assert.Error(t, err)
}

func TestSystem_Users_PatchKeepsEmail(t *testing.T) {
	db := newTestDB(t)
	s := NewSystemService(db, nil)
	ctx := context.Background()
	u := &domain.User{Name: "U", Email: "u@x.io", PasswordHash: "h"}
	u.Prepare("u1", time.Now().UTC())
	require.NoError(t, repo.Insert(ctx, db, u))

	out, err := s.Users.Patch(ctx, "u1", body(t, `{"email":"evil@x.io","role":"dev_admin","sharePercentage":40}`))
	require.NoError(t, err)
	assert.Equal(t, "u@x.io", out.Email)
	assert.Equal(t, domain.RoleDevAdmin, out.Role)
	assert.Equal(t, float64(40), out.SharePercentage)

	_, err = s.Users.Patch(ctx, "u1", body(t, `{"sharePercentage":140}`))
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	_, err = s.Users.Patch(ctx, "u1", body(t, `{"passwordHash":"x"}`))
	assert.ErrorAs(t, err, &ve)
}

func TestSystem_Summary(t *testing.T) {
	db := newTestDB(t)
	s := NewSystemService(db, nil)
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx, db, time.Now().UTC()))

	sum, err := s.Summary(ctx)
	require.NoError(t, err)
	counts := map[string]int64{}
	for _, ts := range sum {
		counts[ts.Table] = ts.Count
	}
	assert.Equal(t, int64(10), counts["employees"])
	assert.Equal(t, int64(1), counts["users"])
	assert.Equal(t, int64(0), counts["invoices"])
}
