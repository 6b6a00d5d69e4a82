package services

import (
	"context"
	"errors"
	"oasa_server/database"
	"oasa_server/lib"
	"oasa_server/structs"
	"oasa_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
)

// AuthService authenticates admin users. Every mutating route sits behind
// the token this service mints.
type AuthService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	db     *database.DB
}

func NewAuthService(cfg *structs.Config, logger *gecho.Logger, db *database.DB) *AuthService {
	return &AuthService{
		logger: logger,
		cfg:    cfg,
		db:     db,
	}
}

// Login verifies credentials and returns the admin user. Unknown emails and
// wrong passwords both come back as ErrInvalidCredentials; the response
// never reveals which one it was.
func (as *AuthService) Login(ctx context.Context, req *structs.AuthRequest) (*tables.AdminUser, error) {
	startTime := time.Now()

	user, err := database.Query[tables.AdminUser](as.db).Where("email", req.Email).First(ctx)
	if err != nil {
		if !errors.Is(err, lib.ErrNotFound) {
			as.logger.Error("Unexpected database error during login", gecho.Field("error", err))
		}
		return nil, lib.ErrInvalidCredentials
	}

	if user == nil {
		as.logger.Debug("Unknown email during login attempt", gecho.Field("identifier", req.Email))
		return nil, lib.ErrInvalidCredentials
	}

	valid, err := lib.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		as.logger.Error("Failed to verify password hash",
			gecho.Field("error", err),
			gecho.Field("user_id", user.ID),
		)
		return nil, lib.ErrInvalidCredentials
	}
	if !valid {
		as.logger.Debug("Invalid password attempt",
			gecho.Field("identifier", req.Email),
			gecho.Field("user_id", user.ID),
		)
		return nil, lib.ErrInvalidCredentials
	}

	as.logger.Debug("Admin logged in",
		gecho.Field("user_id", user.ID),
		gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()),
	)

	user.PasswordHash = ""
	return user, nil
}

// GenerateAccessToken mints the cookie token for a logged-in admin
func (as *AuthService) GenerateAccessToken(user *tables.AdminUser) (string, error) {
	return lib.GenerateAccessToken(
		user.ID,
		user.Email,
		user.Role,
		as.cfg.Auth.AccessTokenSecret,
		as.cfg.Auth.AccessTokenExpiry,
	)
}

// AccessTokenExpiry exposes the configured token lifetime for cookie expiry
func (as *AuthService) AccessTokenExpiry() time.Duration {
	return as.cfg.Auth.AccessTokenExpiry
}
