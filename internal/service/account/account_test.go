package account

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testhr/llamagate/internal/core"
)

type fakeUsers struct {
	byEmail map[string]core.User
	nextID  int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]core.User{}, nextID: 1}
}

func (f *fakeUsers) Create(_ context.Context, user core.User) (core.User, error) {
	if _, ok := f.byEmail[user.Email]; ok {
		return core.User{}, core.ErrUserExists
	}
	user.ID = f.nextID
	f.nextID++
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeUsers) ByEmail(_ context.Context, email string) (core.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return core.User{}, core.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, email, hash string) error {
	user, ok := f.byEmail[email]
	if !ok {
		return core.ErrUserNotFound
	}
	user.Password = hash
	f.byEmail[email] = user
	return nil
}

func newTestService(users core.UserRepository) *Service {
	return NewService(users, []string{"roberto", "pablo", "shafeena"})
}

func TestSignup_Succeeds(t *testing.T) {
	users := newFakeUsers()
	svc := newTestService(users)

	user, err := svc.Signup(context.Background(), "Roberto", "roberto@example.com", "Str0ngpass")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "Roberto", user.Name)

	stored := users.byEmail["roberto@example.com"]
	assert.NotEqual(t, "Str0ngpass", stored.Password)
	assert.True(t, strings.HasPrefix(stored.Password, "$argon2id$"))
}

func TestSignup_RejectsUnknownName(t *testing.T) {
	svc := newTestService(newFakeUsers())

	_, err := svc.Signup(context.Background(), "mallory", "m@example.com", "Str0ngpass")
	var na *NotAllowedError
	require.ErrorAs(t, err, &na)
	assert.Contains(t, err.Error(), "mallory")
}

func TestSignup_Validation(t *testing.T) {
	svc := newTestService(newFakeUsers())
	ctx := context.Background()

	cases := []struct {
		name, email, password string
		wantMsg               string
	}{
		{"", "a@b.co", "Str0ngpass", "Name cannot be empty"},
		{"roberto", "not-an-email", "Str0ngpass", "Invalid email format"},
		{"roberto", "a@b", "Str0ngpass", "Invalid email format"},
		{"roberto", "a@b.co", "Sh0rt", "at least 8 characters"},
		{"roberto", "a@b.co", "alllowercase1", "uppercase letter"},
		{"roberto", "a@b.co", "NoDigitsHere", "uppercase letter"},
	}
	for _, tc := range cases {
		_, err := svc.Signup(ctx, tc.name, tc.email, tc.password)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, tc.wantMsg)
		assert.Contains(t, ve.Message, tc.wantMsg)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc := newTestService(newFakeUsers())
	ctx := context.Background()

	_, err := svc.Signup(ctx, "roberto", "r@example.com", "Str0ngpass")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "pablo", "r@example.com", "Str0ngpass")
	assert.ErrorIs(t, err, core.ErrUserExists)
}

func TestLogin(t *testing.T) {
	svc := newTestService(newFakeUsers())
	ctx := context.Background()

	_, err := svc.Signup(ctx, "shafeena", "s@example.com", "Str0ngpass")
	require.NoError(t, err)

	user, err := svc.Login(ctx, "s@example.com", "Str0ngpass")
	require.NoError(t, err)
	assert.Equal(t, "shafeena", user.Name)

	_, err = svc.Login(ctx, "s@example.com", "WrongPass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "Str0ngpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestResetPassword(t *testing.T) {
	svc := newTestService(newFakeUsers())
	ctx := context.Background()

	_, err := svc.Signup(ctx, "pablo", "p@example.com", "Str0ngpass")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, "p@example.com", "NewStr0ngpass"))

	_, err = svc.Login(ctx, "p@example.com", "Str0ngpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "p@example.com", "NewStr0ngpass")
	assert.NoError(t, err)

	err = svc.ResetPassword(ctx, "ghost@example.com", "NewStr0ngpass")
	assert.ErrorIs(t, err, core.ErrUserNotFound)

	err = svc.ResetPassword(ctx, "p@example.com", "weak")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Sup3rsecret")
	require.NoError(t, err)

	ok, err := VerifyPassword("Sup3rsecret", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("Sup3rsecreT", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("whatever", "not-a-hash")
	assert.Error(t, err)
}
