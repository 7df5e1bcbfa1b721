package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"devjobs/internal/domain/user"
	"devjobs/internal/notifier"
	"devjobs/internal/pkg/jwt"
	"devjobs/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	byID    map[int64]user.User
	byEmail map[string]user.User
	nextID  int64

	createErr error
	updateErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byID: map[int64]user.User{}, byEmail: map[string]user.User{}, nextID: 1}
}

func (m *mockUserRepo) add(u user.User) user.User {
	if u.ID == 0 {
		u.ID = m.nextID
		m.nextID++
	}
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return u
}

func (m *mockUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	if m.createErr != nil {
		return user.User{}, m.createErr
	}
	if _, ok := m.byEmail[u.Email]; ok {
		return user.User{}, repository.ErrDuplicateEmail
	}
	return m.add(u), nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) Update(_ context.Context, u user.User) (user.User, error) {
	if m.updateErr != nil {
		return user.User{}, m.updateErr
	}
	if _, ok := m.byID[u.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return u, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	u, ok := m.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	delete(m.byID, id)
	delete(m.byEmail, u.Email)
	return nil
}

func (m *mockUserRepo) List(context.Context, int, int) ([]user.User, int64, error) {
	return nil, 0, nil
}
func (m *mockUserRepo) Count(context.Context) (int64, error) { return int64(len(m.byID)), nil }
func (m *mockUserRepo) CountByRole(context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}
func (m *mockUserRepo) CountCreatedSince(context.Context, time.Time) (int64, error) { return 0, nil }

type fakeTokens struct {
	refreshClaims jwt.Claims
	validateErr   error
	generateErr   error
}

func (f fakeTokens) GenerateAccessToken(userID int64, email, role string) (string, error) {
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return fmt.Sprintf("access-%d", userID), nil
}

func (f fakeTokens) GenerateRefreshToken(userID int64) (string, error) {
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return fmt.Sprintf("refresh-%d", userID), nil
}

func (f fakeTokens) ValidateToken(string) (jwt.Claims, error) {
	if f.validateErr != nil {
		return jwt.Claims{}, f.validateErr
	}
	return f.refreshClaims, nil
}

func (f fakeTokens) IsRefreshToken(c jwt.Claims) bool {
	return c.TokenType == jwt.TokenTypeRefresh
}

type recordingNotifier struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	recipient string
	kind      notifier.Kind
	data      notifier.Data
}

func (n *recordingNotifier) Notify(_ context.Context, recipient string, kind notifier.Kind, data notifier.Data) error {
	n.sent = append(n.sent, sentMail{recipient: recipient, kind: kind, data: data})
	return n.err
}

func seekerInput() RegisterInput {
	return RegisterInput{
		Email:     "dev@example.com",
		Password:  "hunter2hunter2",
		FirstName: "Dev",
		LastName:  "Ops",
		Role:      "seeker",
	}
}

func TestRegister_Seeker(t *testing.T) {
	repo := newMockUserRepo()
	notif := &recordingNotifier{}
	svc := NewService(repo, fakeTokens{}, notif, nil)

	u, pair, err := svc.Register(context.Background(), seekerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID == 0 || u.Role != user.RoleSeeker {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.PasswordHash != "" {
		t.Fatalf("password hash leaked")
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatalf("expected token pair, got %+v", pair)
	}

	stored := repo.byID[u.ID]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2hunter2")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	if len(notif.sent) != 1 || notif.sent[0].kind != notifier.KindWelcome {
		t.Fatalf("expected one welcome mail, got %+v", notif.sent)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := NewService(newMockUserRepo(), fakeTokens{}, nil, nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
		want   error
	}{
		{"missing email", func(in *RegisterInput) { in.Email = "  " }, ErrMissingFields},
		{"missing name", func(in *RegisterInput) { in.FirstName = "" }, ErrMissingFields},
		{"admin role rejected", func(in *RegisterInput) { in.Role = "admin" }, ErrInvalidRole},
		{"unknown role", func(in *RegisterInput) { in.Role = "wizard" }, ErrInvalidRole},
		{"employer needs company", func(in *RegisterInput) { in.Role = "employer"; in.Company = "" }, ErrCompanyRequired},
		{"short password", func(in *RegisterInput) { in.Password = "short" }, ErrWeakPassword},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := seekerInput()
			tc.mutate(&in)
			if _, _, err := svc.Register(ctx, in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo, fakeTokens{}, nil, nil)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, seekerInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, err := svc.Register(ctx, seekerInput()); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_EmailNormalized(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo, fakeTokens{}, nil, nil)

	in := seekerInput()
	in.Email = "  Dev@Example.COM "
	u, _, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "dev@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
}

func TestRegister_NotifyFailureDoesNotFail(t *testing.T) {
	repo := newMockUserRepo()
	notif := &recordingNotifier{err: errors.New("ses down")}
	svc := NewService(repo, fakeTokens{}, notif, nil)

	if _, _, err := svc.Register(context.Background(), seekerInput()); err != nil {
		t.Fatalf("register must survive notify failure, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo, fakeTokens{}, nil, nil)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, seekerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	u, pair, err := svc.Login(ctx, LoginInput{Email: "dev@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.PasswordHash != "" {
		t.Fatalf("password hash leaked")
	}
	if !strings.HasPrefix(pair.Access, "access-") {
		t.Fatalf("unexpected access token %q", pair.Access)
	}

	// Wrong password and unknown email must be indistinguishable.
	_, _, badPass := svc.Login(ctx, LoginInput{Email: "dev@example.com", Password: "wrong-password"})
	_, _, badMail := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "hunter2hunter2"})
	if !errors.Is(badPass, ErrInvalidCredentials) || !errors.Is(badMail, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", badPass, badMail)
	}
}

func TestRefresh(t *testing.T) {
	repo := newMockUserRepo()
	u := repo.add(user.User{Email: "dev@example.com", Role: user.RoleSeeker})
	ctx := context.Background()

	ok := fakeTokens{refreshClaims: jwt.Claims{UserID: u.ID, TokenType: jwt.TokenTypeRefresh}}
	svc := NewService(repo, ok, nil, nil)
	pair, err := svc.Refresh(ctx, "refresh-token")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatalf("expected new pair, got %+v", pair)
	}

	access := fakeTokens{refreshClaims: jwt.Claims{UserID: u.ID, TokenType: jwt.TokenTypeAccess}}
	if _, err := NewService(repo, access, nil, nil).Refresh(ctx, "x"); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("access token must not refresh, got %v", err)
	}

	expired := fakeTokens{validateErr: jwt.ErrTokenExpired}
	if _, err := NewService(repo, expired, nil, nil).Refresh(ctx, "x"); !errors.Is(err, ErrRefreshExpired) {
		t.Fatalf("expected ErrRefreshExpired, got %v", err)
	}

	gone := fakeTokens{refreshClaims: jwt.Claims{UserID: 999, TokenType: jwt.TokenTypeRefresh}}
	if _, err := NewService(repo, gone, nil, nil).Refresh(ctx, "x"); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("deleted user must not refresh, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := newMockUserRepo()
	seeker := repo.add(user.User{Email: "s@example.com", FirstName: "Old", LastName: "Name", Role: user.RoleSeeker})
	employer := repo.add(user.User{Email: "e@example.com", FirstName: "Emp", LastName: "Loyer", Role: user.RoleEmployer, Company: "Acme"})
	svc := NewService(repo, fakeTokens{}, nil, nil)
	ctx := context.Background()

	first := "New"
	u, err := svc.UpdateProfile(ctx, seeker.ID, UpdateProfileInput{FirstName: &first})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.FirstName != "New" || u.LastName != "Name" {
		t.Fatalf("patch wrong: %+v", u)
	}

	// Company changes are ignored for seekers and applied for employers.
	company := "Globex"
	u, err = svc.UpdateProfile(ctx, seeker.ID, UpdateProfileInput{Company: &company})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Company != "" {
		t.Fatalf("seeker gained a company: %+v", u)
	}

	u, err = svc.UpdateProfile(ctx, employer.ID, UpdateProfileInput{Company: &company})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Company != "Globex" {
		t.Fatalf("employer company not updated: %+v", u)
	}

	if _, err := svc.UpdateProfile(ctx, 12345, UpdateProfileInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
