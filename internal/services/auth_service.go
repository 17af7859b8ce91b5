package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(u *domain.User) (string, error)
}

// Session is the result of a successful login or registration.
type Session struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// RegisterInput is the sign-up request body.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AuthService verifies credentials and creates accounts.
type AuthService struct {
	DB       *gorm.DB
	Tokens   TokenIssuer
	Activity *Activity
	Now      func() time.Time

	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Login checks email and password. Unknown emails and wrong passwords both
// return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Login")
	defer span.End()

	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if repo.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", u.ID))

	actor := ActorFrom(ctx)
	actor.User = u.Email
	s.Activity.Record(WithActor(ctx, actor), "Auth", Action("logged in", ""))
	return &Session{Token: token, User: u}, nil
}

// Register creates a user. Unknown roles become "user" and admin roles get
// their department assigned.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Register",
		trace.WithAttributes(attribute.String("role", in.Role)),
	)
	defer span.End()

	if strings.TrimSpace(in.Password) == "" {
		return nil, &domain.ValidationError{Field: "password", Msg: "is required"}
	}
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	u.Prepare(uuid.NewString(), s.now())
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := repo.Insert(ctx, s.DB, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, translate(err)
	}

	token, err := s.Tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", u.ID))
	countMutation("user", "create")

	actor := ActorFrom(ctx)
	actor.User = u.Email
	s.Activity.Record(WithActor(ctx, actor), "Auth", Action("registered", "user"))
	return &Session{Token: token, User: u}, nil
}
