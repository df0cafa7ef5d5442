package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dietia/dietia-backend/internal/domain/entity"
	repo "github.com/dietia/dietia-backend/internal/domain/repository"
	"github.com/dietia/dietia-backend/pkg/helpers"
	tpl "github.com/dietia/dietia-backend/pkg/mailer/templates"
)

const (
	sessionTTL     = 24 * time.Hour
	resetTokenTTL  = 30 * time.Minute
	MaxAvatarBytes = 5 << 20
)

type UserService struct {
	Repo   repo.UserRepository
	Audits repo.AuditRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger

	// Optional collaborators; nil disables the feature.
	Avatars  ObjectStore
	Search   DietSearchIndex
	Notifier *Notifier
	ResetURL string
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NewUserService(users repo.UserRepository, audits repo.AuditRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *UserService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &UserService{Repo: users, Audits: audits, JWT: jwt, Redis: rdb, Logger: logger}
}

func (s *UserService) audit(ctx context.Context, meta RequestMeta, userID, email, action string, md map[string]any) {
	if s.Audits == nil {
		return
	}
	ev := &entity.AuditEvent{UserID: userID, Email: email, Action: action, IP: meta.IP, UserAgent: meta.UserAgent, Metadata: md}
	if err := s.Audits.Insert(ctx, ev); err != nil {
		s.Logger.WithError(err).WithField("action", action).Warn("audit insert failed")
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Register creates an account and sends the welcome e-mail.
func (s *UserService) Register(ctx context.Context, in RegisterInput, meta RequestMeta) (*entity.User, error) {
	email := normalizeEmail(in.Email)
	if existing, err := s.Repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{Email: email, Password: hash, Name: strings.TrimSpace(in.Name)}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.audit(ctx, meta, u.ID, u.Email, entity.ActionRegister, nil)
	s.Notifier.Notify(ctx, tpl.Welcome, u.Name, u.Email)
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return u, ErrInvalidCredentials
	}
	if helpers.NeedsRehash(u.Password) {
		s.rehash(ctx, u, password)
	}
	return u, nil
}

// rehash upgrades a hash made with an older cost; failures keep the old one.
func (s *UserService) rehash(ctx context.Context, u *entity.User, password string) {
	hash, err := helpers.HashPassword(password)
	if err == nil {
		err = s.Repo.UpdatePassword(ctx, u.ID, hash)
	}
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("password rehash failed")
		return
	}
	u.Password = hash
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.signPair(u.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"avatar_url": u.AvatarURL,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := helpers.KeySession(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return pair, nil
}

func (s *UserService) signPair(userID, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Login authenticates, opens a session and notifies the user of the new login.
func (s *UserService) Login(ctx context.Context, email, password string, meta RequestMeta) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		uid := ""
		if u != nil {
			uid = u.ID
		}
		s.audit(ctx, meta, uid, normalizeEmail(email), entity.ActionLoginFailed, nil)
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.audit(ctx, meta, u.ID, u.Email, entity.ActionLogin, nil)
	s.Notifier.Security(ctx, tpl.LoginNotification, u.Name, u.Email, meta)
	return u, pair, nil
}

// Refresh rotates the session id and both tokens. The refresh token must
// carry the session id currently stored for the user.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	key := helpers.KeySession(u.ID)
	if s.Redis != nil {
		sid, rErr := s.Redis.HGet(ctx, key, "sid").Result()
		if rErr != nil || sid != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}

	sid := uuid.NewString()
	pair, err := s.signPair(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{"sid": sid, "updated_at": nowRFC3339()})
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return pair, u.ID, nil
}

// Logout drops the session so outstanding tokens stop working.
func (s *UserService) Logout(ctx context.Context, userID string, meta RequestMeta) {
	s.dropSession(ctx, userID)
	s.audit(ctx, meta, userID, "", entity.ActionLogout, nil)
}

func (s *UserService) dropSession(ctx context.Context, userID string) {
	if s.Redis == nil || userID == "" {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, helpers.KeySession(userID)); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("drop session failed")
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.touchSession(ctx, u)
	return u, nil
}

// touchSession mirrors profile fields into the session hash without
// extending it.
func (s *UserService) touchSession(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	key := helpers.KeySession(u.ID)
	err := helpers.RedisTouchHash(ctx, s.Redis, key, map[string]any{
		"name":       u.Name,
		"avatar_url": u.AvatarURL,
		"updated_at": nowRFC3339(),
	})
	if err != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("redis touch failed")
	}
}

// UploadAvatar stores an image under avatars/<uid>/ and saves its URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string, size int64) (string, error) {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") || size <= 0 || size > MaxAvatarBytes {
		return "", ErrInvalidAvatar
	}
	if s.Avatars == nil {
		return "", ErrStorageUnavailable
	}
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	url, err := s.Avatars.Upload(ctx, helpers.AvatarObjectPath(userID, filename), contentType, io.LimitReader(r, MaxAvatarBytes))
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	u.AvatarURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", err
	}
	s.touchSession(ctx, u)
	return url, nil
}

// ChangePassword requires the current password.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string, meta RequestMeta) error {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if !helpers.CompareHashAndPassword(u.Password, current) {
		return ErrInvalidCredentials
	}
	hash, err := helpers.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	s.audit(ctx, meta, u.ID, u.Email, entity.ActionPasswordChange, nil)
	s.Notifier.Security(ctx, tpl.PasswordChanged, u.Name, u.Email, meta)
	return nil
}

// DeleteAccount removes the user with everything they own and clears the
// session, caches and search documents.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, u.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if s.Redis != nil {
		if err := helpers.RedisDel(ctx, s.Redis, helpers.KeySession(u.ID), helpers.KeyLatestAssessment(u.ID)); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("redis cleanup failed")
		}
	}
	if s.Search != nil {
		if err := s.Search.DeleteByUser(ctx, u.ID); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("search cleanup failed")
		}
	}
	s.Notifier.Notify(ctx, tpl.AccountDeleted, u.Name, u.Email)
	return nil
}

// Activity is the recent account activity shown on the profile page.
type Activity struct {
	LastLogin          *entity.AuditEvent
	LastPasswordChange *entity.AuditEvent
}

func (s *UserService) Activity(ctx context.Context, userID string) (Activity, error) {
	var act Activity
	if s.Audits == nil {
		return act, nil
	}
	var err error
	if act.LastLogin, err = s.lastEvent(ctx, userID, entity.ActionLogin); err != nil {
		return Activity{}, err
	}
	if act.LastPasswordChange, err = s.lastEvent(ctx, userID, entity.ActionPasswordChange); err != nil {
		return Activity{}, err
	}
	return act, nil
}

func (s *UserService) lastEvent(ctx context.Context, userID, action string) (*entity.AuditEvent, error) {
	ev, err := s.Audits.LastByAction(ctx, userID, action)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	return ev, err
}

// ResetInit mails a one-time reset link. Unknown addresses are not
// reported to the caller.
func (s *UserService) ResetInit(ctx context.Context, email string, meta RequestMeta) error {
	email = normalizeEmail(email)
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		s.audit(ctx, meta, "", email, entity.ActionResetInit, map[string]any{"known": false})
		return nil
	}
	if s.Redis == nil {
		s.Logger.WithField("user_id", u.ID).Warn("password reset requested without redis")
		return nil
	}
	tok, err := helpers.GenToken(32)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.Redis.Set(ctx, helpers.KeyResetToken(tok), u.ID, resetTokenTTL).Err(); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	s.audit(ctx, meta, u.ID, u.Email, entity.ActionResetInit, map[string]any{"known": true})
	s.Notifier.Security(ctx, tpl.ForgotPassword, u.Name, u.Email, meta,
		tpl.WithResetURL(s.ResetURL+"?token="+tok),
		tpl.WithExpiresIn(resetTokenTTL),
	)
	return nil
}

// ResetConfirm consumes a reset token, sets the new password and ends
// every open session.
func (s *UserService) ResetConfirm(ctx context.Context, token, next string, meta RequestMeta) error {
	if s.Redis == nil {
		return ErrResetUnavailable
	}
	hash, err := helpers.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	// GETDEL claims the token; a concurrent confirm sees redis.Nil.
	uid, err := s.Redis.GetDel(ctx, helpers.KeyResetToken(token)).Result()
	if errors.Is(err, redis.Nil) || (err == nil && uid == "") {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("claim reset token: %w", err)
	}
	if err := s.Repo.UpdatePassword(ctx, uid, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	s.dropSession(ctx, uid)
	s.audit(ctx, meta, uid, "", entity.ActionResetConfirm, nil)
	if u, err := s.Repo.GetByID(ctx, uid); err == nil {
		s.Notifier.Security(ctx, tpl.PasswordChanged, u.Name, u.Email, meta)
	}
	return nil
}
