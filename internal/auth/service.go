package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/amoura-app/amoura-console/internal/api"
	"github.com/amoura-app/amoura-console/internal/moderation"
	"github.com/amoura-app/amoura-console/internal/session"
)

// Service wraps the authentication flows. It is one of the two writers of
// credential state (the other being the API client's 401 teardown).
type Service struct {
	client   *api.Client
	sessions *session.Manager
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService constructs the auth service.
func NewService(client *api.Client, sessions *session.Manager, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:   client,
		sessions: sessions,
		validate: validator.New(),
		logger:   logger,
	}
}

// Login authenticates against the backend and persists the session. An
// account whose role is neither ADMIN nor MODERATOR is treated as
// unauthenticated for this console: the session is torn down again and an
// auth error surfaces even though the HTTP call itself succeeded.
func (s *Service) Login(ctx context.Context, creds Credentials) (session.Session, error) {
	if err := s.checkCredentials(creds); err != nil {
		return session.Session{}, err
	}

	var resp loginResponse
	if err := s.client.Post(ctx, "/auth/login", creds, &resp); err != nil {
		// A failed login must not leave stale credential state behind.
		if clearErr := s.sessions.Clear(ctx); clearErr != nil {
			s.logger.Warn("clearing session after failed login", slog.Any("error", clearErr))
		}
		return session.Session{}, err
	}

	sess := session.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Account:      resp.User,
		LoggedIn:     true,
	}
	if err := s.sessions.Set(ctx, sess); err != nil {
		return session.Session{}, err
	}

	role := sess.Role()
	if role != moderation.RoleAdmin && role != moderation.RoleModerator {
		s.logger.Info("login rejected for non-console role", slog.String("role", role))
		s.teardown(ctx, sess.RefreshToken)
		return session.Session{}, api.NewError(api.KindAuth,
			"This account is not authorized for the admin console. Only ADMIN or MODERATOR may sign in.")
	}

	s.logger.Info("login succeeded", slog.String("role", role))
	return sess, nil
}

// Logout invalidates the refresh token remotely when possible and always
// clears local credential state. Safe to call when already signed out.
func (s *Service) Logout(ctx context.Context) error {
	sess := s.sessions.Current(ctx)
	s.teardown(ctx, sess.RefreshToken)
	return nil
}

// Refresh rotates the token pair using the stored refresh token. On any
// failure the session is cleared; a refresh token the backend no longer
// accepts is not worth keeping.
func (s *Service) Refresh(ctx context.Context) (session.Session, error) {
	sess := s.sessions.Current(ctx)
	if sess.RefreshToken == "" {
		return session.Session{}, api.NewError(api.KindAuth, "No refresh token available.")
	}

	var resp loginResponse
	if err := s.client.Post(ctx, "/auth/refresh", sess.RefreshToken, &resp); err != nil {
		if clearErr := s.sessions.Clear(ctx); clearErr != nil {
			s.logger.Warn("clearing session after failed refresh", slog.Any("error", clearErr))
		}
		return session.Session{}, err
	}

	next := session.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Account:      resp.User,
		LoggedIn:     true,
	}
	if len(next.Account) == 0 {
		next.Account = sess.Account
	}
	if err := s.sessions.Set(ctx, next); err != nil {
		return session.Session{}, err
	}
	return next, nil
}

// CurrentRole returns the stored role claim, "" when signed out. This is
// the adapter the moderation workflow consumes.
func (s *Service) CurrentRole(ctx context.Context) string {
	return s.sessions.Current(ctx).Role()
}

// IsAuthenticated reports whether a credential with a console role is held.
func (s *Service) IsAuthenticated(ctx context.Context) bool {
	sess := s.sessions.Current(ctx)
	if !sess.HasToken() || !sess.LoggedIn {
		return false
	}
	role := sess.Role()
	return role == moderation.RoleAdmin || role == moderation.RoleModerator
}

// teardown revokes the refresh token remotely (best effort) and clears
// local state unconditionally.
func (s *Service) teardown(ctx context.Context, refreshToken string) {
	if refreshToken != "" {
		if err := s.client.Post(ctx, "/auth/logout", refreshToken, nil); err != nil {
			s.logger.Debug("remote logout failed", slog.Any("error", err))
		}
	}
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Warn("clearing session", slog.Any("error", err))
	}
}

// checkCredentials enforces the cross-field rules the login types imply,
// before any network call.
func (s *Service) checkCredentials(creds Credentials) error {
	if err := s.validate.Struct(creds); err != nil {
		return api.NewError(api.KindValidation, validationMessage(err))
	}
	switch creds.LoginType {
	case LoginEmailPassword:
		if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
			return api.NewError(api.KindValidation, "Email and password are required.")
		}
	case LoginPhonePassword:
		if strings.TrimSpace(creds.PhoneNumber) == "" || creds.Password == "" {
			return api.NewError(api.KindValidation, "Phone number and password are required.")
		}
	case LoginEmailOTP:
		if strings.TrimSpace(creds.Email) == "" || strings.TrimSpace(creds.OTPCode) == "" {
			return api.NewError(api.KindValidation, "Email and OTP code are required.")
		}
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid login request."
	}
	switch verrs[0].Field() {
	case "Email":
		return "Email address is malformed."
	case "PhoneNumber":
		return "Phone number is malformed."
	case "LoginType":
		return "Login type must be EMAIL_PASSWORD, PHONE_PASSWORD or EMAIL_OTP."
	default:
		return "Invalid login request."
	}
}
