package handling

import (
	"errors"
	"net/http"
	"oasa_server/config"
	"oasa_server/lib"

	"github.com/MonkyMars/gecho"
)

// HandleError logs the full error and writes the response that matches its
// class. Store failures never leak their detail to clients in production.
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	public := lib.PublicMessage(err, config.IsProduction())

	var ve *lib.ValidationError
	if errors.As(err, &ve) {
		return gecho.BadRequest(w, gecho.WithMessage("Validation failed"), gecho.WithData(ve.Errors)).Send()
	}

	switch {
	case errors.Is(err, lib.ErrNotFound):
		return gecho.NotFound(w, gecho.WithMessage(public)).Send()
	case errors.Is(err, lib.ErrValidation):
		return gecho.BadRequest(w, gecho.WithMessage(public)).Send()
	case errors.Is(err, lib.ErrConflict):
		return gecho.Conflict(w, gecho.WithMessage(public)).Send()
	case errors.Is(err, lib.ErrInvalidCredentials), errors.Is(err, lib.ErrInvalidToken):
		return gecho.Unauthorized(w, gecho.WithMessage("Invalid credentials")).Send()
	default:
		return gecho.InternalServerError(w, gecho.WithMessage(public)).Send()
	}
}
