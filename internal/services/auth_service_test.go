package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tbourn/go-erp-backend/internal/domain"
)

type fakeTokens struct{}

func (fakeTokens) Issue(u *domain.User) (string, error) { return "tok-" + u.ID, nil }

func newAuth(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	return &AuthService{DB: db, Tokens: fakeTokens{}, Activity: &Activity{DB: db}, Cost: bcrypt.MinCost}
}

func TestAuth_Register_RolesAndDepartments(t *testing.T) {
	s := newAuth(t)
	ctx := context.Background()

	tests := []struct {
		email, role, wantRole, wantDept string
	}{
		{"a@x.io", "overlord", domain.RoleUser, ""},
		{"b@x.io", "", domain.RoleUser, ""},
		{"c@x.io", "dev_admin", domain.RoleDevAdmin, "Development"},
		{"d@x.io", "ecommerce_admin", domain.RoleEcommerceAdmin, "Ecommerce"},
		{"e@x.io", "super_admin", domain.RoleSuperAdmin, ""},
	}
	for _, tt := range tests {
		sess, err := s.Register(ctx, RegisterInput{Name: "N", Email: tt.email, Password: "pw", Role: tt.role})
		require.NoError(t, err, tt.email)
		assert.Equal(t, tt.wantRole, sess.User.Role, tt.email)
		assert.Equal(t, tt.wantDept, sess.User.Department, tt.email)
		assert.Equal(t, "tok-"+sess.User.ID, sess.Token)
	}
}

func TestAuth_Register_Rejections(t *testing.T) {
	s := newAuth(t)
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterInput{Name: "N", Email: "a@x.io", Password: "pw"})
	require.NoError(t, err)
	_, err = s.Register(ctx, RegisterInput{Name: "M", Email: "A@X.io", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = s.Register(ctx, RegisterInput{Name: "N", Email: "b@x.io"})
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestAuth_Login(t *testing.T) {
	s := newAuth(t)
	ctx := context.Background()
	_, err := s.Register(ctx, RegisterInput{Name: "Admin", Email: "admin@test.com", Password: "password", Role: "super_admin"})
	require.NoError(t, err)

	_, err = s.Login(ctx, "admin@test.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, "nobody@test.com", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	sess, err := s.Login(ctx, "Admin@Test.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "tok-"+sess.User.ID, sess.Token)

	raw, err := json.Marshal(sess)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), sess.User.PasswordHash)
}
