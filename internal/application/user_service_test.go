package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/infrastructure/memory"
	"github.com/oksasatya/storefront/pkg/helpers"
	"github.com/oksasatya/storefront/pkg/mailer"
	mailtpl "github.com/oksasatya/storefront/pkg/mailer/templates"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishJSON(ctx context.Context, body any) error {
	return m.Called(ctx, body).Error(0)
}

func newUserService(store *memory.Store) *UserService {
	return NewUserService(store.Users(), helpers.NewJWTManager("test-secret", time.Hour), nil)
}

func TestUserService_SignupLoginResolve(t *testing.T) {
	store := memory.NewStore()
	svc := newUserService(store)
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "A@X.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Empty(t, u.Password)
	assert.Equal(t, entity.RoleUser, u.Role)

	stored, err := store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password1", stored.Password)

	logged, sess, err := svc.Login(ctx, "a@x.com", "password1", ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	assert.Empty(t, logged.Password)
	assert.NotEmpty(t, sess.Token)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	resolved, err := svc.ResolveSession(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)
	assert.Empty(t, resolved.Password)
}

func TestUserService_SignupDuplicateEmail(t *testing.T) {
	svc := newUserService(memory.NewStore())
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Name: "A", Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)
	_, err = svc.Signup(ctx, SignupInput{Name: "B", Email: "A@x.com ", Password: "password2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_SignupPasswordOverBcryptLimit(t *testing.T) {
	store := memory.NewStore()
	svc := newUserService(store)

	_, err := svc.Signup(context.Background(), SignupInput{Name: "A", Email: "a@x.com", Password: strings.Repeat("é", 40)})
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = store.Users().GetByEmail(context.Background(), "a@x.com")
	assert.Error(t, err)
}

func TestUserService_LoginFailures(t *testing.T) {
	svc := newUserService(memory.NewStore())
	ctx := context.Background()
	_, err := svc.Signup(ctx, SignupInput{Name: "A", Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@x.com", "wrong-password", ClientInfo{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@x.com", "password1", ClientInfo{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_ResolveSessionFailures(t *testing.T) {
	store := memory.NewStore()
	svc := newUserService(store)
	ctx := context.Background()

	_, err := svc.ResolveSession(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.ResolveSession(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, err, helpers.ErrTokenInvalid)

	u, err := svc.Signup(ctx, SignupInput{Name: "A", Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)
	_, sess, err := svc.Login(ctx, "a@x.com", "password1", ClientInfo{})
	require.NoError(t, err)

	store.DeleteUser(u.ID)
	_, err = svc.ResolveSession(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_QueuesNotifications(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("PublishJSON", mock.Anything, mock.MatchedBy(func(job mailer.EmailJob) bool {
		return job.Template == mailtpl.Welcome && job.To == "a@x.com"
	})).Return(nil).Once()
	pub.On("PublishJSON", mock.Anything, mock.MatchedBy(func(job mailer.EmailJob) bool {
		return job.Template == mailtpl.LoginNotification && job.Data["IP"] == "203.0.113.9"
	})).Return(nil).Once()

	svc := newUserService(memory.NewStore())
	svc.Mail = pub
	svc.NotifyLogin = true
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Name: "A", Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "a@x.com", "password1", ClientInfo{IP: "203.0.113.9", UserAgent: "test"})
	require.NoError(t, err)

	pub.AssertExpectations(t)
}

func TestUserService_GetProfileAndList(t *testing.T) {
	svc := newUserService(memory.NewStore())
	ctx := context.Background()

	_, err := svc.GetProfile(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = svc.GetProfile(ctx, entity.NewID())
	assert.ErrorIs(t, err, ErrUserNotFound)

	u, err := svc.Signup(ctx, SignupInput{Name: "A", Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)
	got, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Password)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].Password)
}

func TestAuthorize(t *testing.T) {
	admin := &entity.User{ID: "a", Role: entity.RoleAdmin}
	user := &entity.User{ID: "u", Role: entity.RoleUser}

	assert.NoError(t, Authorize(admin, entity.RoleAdmin))
	assert.ErrorIs(t, Authorize(user, entity.RoleAdmin), ErrForbidden)
	assert.ErrorIs(t, Authorize(nil, entity.RoleUser), ErrUnauthenticated)

	assert.NoError(t, AuthorizeSelf(user, "u"))
	assert.NoError(t, AuthorizeSelf(user, ""))
	assert.NoError(t, AuthorizeSelf(admin, "u"))
	assert.ErrorIs(t, AuthorizeSelf(user, "someone-else"), ErrForbidden)
}
