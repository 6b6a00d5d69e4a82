package auth

import (
	"errors"
	"net/http"
	"oasa_server/lib"
	"oasa_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
)

// Login handles POST /api/auth/login. On success the access token is set
// as an HttpOnly cookie; the body never contains the token itself.
func (arm *AuthRoutesManager) Login(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AuthRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("Please check your credentials and try again"),
			gecho.Send(),
		)
		return
	}

	user, err := arm.authService.Login(r.Context(), body)
	if err != nil {
		if errors.Is(err, lib.ErrInvalidCredentials) {
			gecho.Unauthorized(w,
				gecho.WithMessage("Invalid email or password"),
				gecho.Send(),
			)
			return
		}

		arm.logger.Error("Login failed", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("Unable to log in. Please try again"),
			gecho.Send(),
		)
		return
	}

	token, err := arm.authService.GenerateAccessToken(user)
	if err != nil {
		arm.logger.Error("Failed to generate access token",
			gecho.Field("error", err),
			gecho.Field("user_id", user.ID),
		)
		gecho.InternalServerError(w,
			gecho.WithMessage("Unable to log in. Please try again"),
			gecho.Send(),
		)
		return
	}

	lib.SetCookie(lib.AccessCookieName, token, time.Now().Add(arm.authService.AccessTokenExpiry()), w)

	gecho.Success(w,
		gecho.WithMessage("Logged in"),
		gecho.WithData(map[string]any{
			"user": user,
		}),
		gecho.Send(),
	)
}

// Logout handles POST /api/auth/logout by clearing the access cookie
func (arm *AuthRoutesManager) Logout(w http.ResponseWriter, r *http.Request) {
	lib.ClearCookie(lib.AccessCookieName, w)

	gecho.Success(w,
		gecho.WithMessage("Logged out"),
		gecho.Send(),
	)
}
