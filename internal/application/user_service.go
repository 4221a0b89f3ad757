package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/internal/domain/entity"
	repo "github.com/oksasatya/storefront/internal/domain/repository"
	"github.com/oksasatya/storefront/pkg/helpers"
	"github.com/oksasatya/storefront/pkg/mailer"
	mailtpl "github.com/oksasatya/storefront/pkg/mailer/templates"
)

// JobPublisher puts email jobs on the queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type UserService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger

	// Mail is optional. When nil no notifications are queued.
	Mail        JobPublisher
	Brand       mailtpl.Brand
	NotifyLogin bool
}

func NewUserService(r repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *UserService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &UserService{Repo: r, JWT: jwt, Logger: logger}
}

type SignupInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
}

// Session is an issued session token and its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// ClientInfo describes the caller for login notifications.
type ClientInfo struct {
	IP        string
	UserAgent string
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, helpers.ErrPasswordTooLong) {
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Name:        strings.TrimSpace(in.Name),
		Email:       entity.NormalizeEmail(in.Email),
		Password:    hash,
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Role:        entity.RoleUser,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		s.Logger.WithError(err).WithField("email", u.Email).Error("create user failed")
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user signed up")

	s.enqueue(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(s.Brand, u.Name, u.Email),
	})
	return u.Sanitized(), nil
}

// VerifyCredentials returns the user when email and password match.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login verifies credentials and issues a session token.
func (s *UserService) Login(ctx context.Context, email, password string, client ClientInfo) (*entity.User, Session, error) {
	u, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, Session{}, err
	}
	token, exp, err := s.JWT.Issue(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue session token failed")
		return nil, Session{}, err
	}

	if s.NotifyLogin {
		s.enqueue(ctx, mailer.EmailJob{
			To:       u.Email,
			Template: mailtpl.LoginNotification,
			Data: mailtpl.NewLoginNotificationData(s.Brand, u.Name, u.Email,
				mailtpl.WithIP(client.IP),
				mailtpl.WithUserAgent(client.UserAgent),
				mailtpl.WithTime(time.Now()),
			),
		})
	}
	return u.Sanitized(), Session{Token: token, ExpiresAt: exp}, nil
}

// ResolveSession turns a session token into the live user it belongs to.
// Every failure wraps ErrUnauthenticated.
func (s *UserService) ResolveSession(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	uid, err := s.JWT.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	u, err := s.Repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, ErrUserNotFound)
		}
		return nil, err
	}
	return u.Sanitized(), nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	if !entity.ValidID(userID) {
		return nil, ErrInvalidID
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u.Sanitized(), nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.User, 0, len(users))
	for i := range users {
		out = append(out, users[i].Sanitized())
	}
	return out, nil
}

func (s *UserService) enqueue(ctx context.Context, job mailer.EmailJob) {
	if s.Mail == nil {
		return
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"template": job.Template, "to": job.To}).Warn("enqueue email failed")
	}
}
