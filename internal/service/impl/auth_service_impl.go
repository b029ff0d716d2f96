package impl

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gridmark/internal/domain"
	"gridmark/internal/dto"
	"gridmark/internal/observability/metrics"
	"gridmark/internal/service"
	"gridmark/internal/store"

	"github.com/google/uuid"
)

type AuthServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	TokenService    service.TokenService
}

func NewAuthServiceImpl(st *store.Store, passwordService service.PasswordService, tokenService service.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{
		Store:           gormStoreAdapter{store: st},
		PasswordService: passwordService,
		TokenService:    tokenService,
	}
}

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest, ip, ua string) (*dto.RegisterResponse, error) {
	result := "success"
	defer func() {
		metrics.RegistrationsTotal.WithLabelValues(result).Inc()
	}()

	if r.Email == "" || r.Username == "" || r.Password == "" {
		result = "invalid"
		return nil, ErrEmptyCredential
	}
	if !emailPattern.MatchString(r.Email) {
		result = "invalid"
		return nil, ErrInvalidEmail
	}
	if len(r.Username) < 4 || len(r.Username) > 30 {
		result = "invalid"
		return nil, ErrUsernameLength
	}
	if !usernamePattern.MatchString(r.Username) {
		result = "invalid"
		return nil, domain.ErrInvalidUsername
	}
	if len(r.Password) < 8 || len(r.Password) > 30 {
		result = "invalid"
		return nil, ErrPasswordLength
	}

	var out dto.RegisterResponse

	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		now := time.Now().UTC()

		// The citext columns make these lookups case-insensitive.
		if _, err := tx.Users().GetByEmail(ctx, r.Email); err == nil {
			return domain.ErrEmailTaken
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}
		if _, err := tx.Users().GetByUsername(ctx, r.Username); err == nil {
			return domain.ErrUsernameTaken
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}

		u := &domain.User{
			ID:        uuid.New(),
			Email:     r.Email,
			Username:  r.Username,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}

		hash, salt, paramsJSON, algo, ver, err := a.PasswordService.Hash(r.Password)
		if err != nil {
			return err
		}
		cred := &domain.PasswordCredential{
			ID:          uuid.New(),
			UserID:      u.ID,
			Algo:        algo,
			Hash:        hash,
			Salt:        salt,
			ParamsJSON:  paramsJSON,
			PasswordVer: ver,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Credentials().UpsertPassword(ctx, cred); err != nil {
			return err
		}

		// An unknown inviter is ignored rather than rejected: the invite is a
		// bonus, not a registration requirement.
		if inviter := strings.TrimSpace(r.Inviter); inviter != "" {
			if invUser, err := tx.Users().GetByUsername(ctx, inviter); err == nil {
				_, lookupErr := tx.Invites().GetByInvitee(ctx, r.Username)
				switch {
				case errors.Is(lookupErr, store.ErrRecordNotFound):
					inv := &domain.Invite{
						ID:        uuid.New(),
						Inviter:   invUser.Username,
						Invitee:   r.Username,
						CreatedAt: now,
					}
					if err := tx.Invites().Create(ctx, inv); err != nil {
						return err
					}
				case lookupErr != nil:
					return lookupErr
				}
			} else if !errors.Is(err, store.ErrRecordNotFound) {
				return err
			}
		}

		out = dto.RegisterResponse{
			Success: true,
			Message: "Registration successful!",
			UserID:  u.ID.String(),
		}
		return nil
	})

	if err != nil {
		result = resultLabel(err)
		return nil, err
	}

	slog.Info("user registered", "username", r.Username, "ip", ip, "user_agent", ua)
	return &out, nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest, ip, ua string) (*dto.LoginResponse, error) {
	result := "success"
	defer func() {
		metrics.LoginsTotal.WithLabelValues(result).Inc()
	}()

	ident := r.Username
	if ident == "" {
		ident = r.Email
	}
	if ident == "" || r.Password == "" {
		result = "invalid"
		return nil, ErrEmptyCredential
	}

	var out *dto.LoginResponse

	// A rehash may write, so the whole flow runs in one transaction.
	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		var user *domain.User
		var err error
		if looksLikeEmail(ident) {
			user, err = tx.Users().GetByEmail(ctx, ident)
		} else {
			user, err = tx.Users().GetByUsername(ctx, ident)
		}
		if err != nil {
			return domain.ErrInvalidCredentials // don't leak which field failed
		}

		cred, err := tx.Credentials().GetPasswordByUserID(ctx, user.ID)
		if err != nil {
			return domain.ErrInvalidCredentials
		}

		rehashNeeded, ok := a.PasswordService.Verify(r.Password, cred)
		if !ok {
			return domain.ErrInvalidCredentials
		}

		if rehashNeeded {
			newHash, newSalt, newParamsJSON, algo, ver, err := a.PasswordService.Hash(r.Password)
			if err != nil {
				return err
			}
			cred.Algo = algo
			cred.Hash = newHash
			cred.Salt = newSalt
			cred.ParamsJSON = newParamsJSON
			cred.PasswordVer = ver
			cred.UpdatedAt = time.Now().UTC()
			if err := tx.Credentials().UpsertPassword(ctx, cred); err != nil {
				return err
			}
		}

		token, _, err := a.TokenService.Issue(user.Username)
		if err != nil {
			return err
		}
		out = &dto.LoginResponse{
			Success:  true,
			Username: user.Username,
			Token:    token,
		}
		return nil
	})

	if err != nil {
		result = resultLabel(err)
		return nil, err
	}

	slog.Info("user logged in", "username", out.Username, "ip", ip, "user_agent", ua)
	return out, nil
}

func looksLikeEmail(s string) bool { return strings.ContainsRune(s, '@') }

func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrUsernameTaken):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "rejected"
	default:
		return "failure"
	}
}
