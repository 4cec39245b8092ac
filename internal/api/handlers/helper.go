package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/hivetax/hivetax-platform/internal/errors"
	"github.com/hivetax/hivetax-platform/internal/api/middleware"
	"github.com/hivetax/hivetax-platform/internal/models"
	"github.com/hivetax/hivetax-platform/internal/utils"
	"github.com/hivetax/hivetax-platform/internal/utils/response"
)

// claimsFromContext pulls the authenticated user out of the request context.
// Writes a 401 and returns false when the auth middleware did not run.
func claimsFromContext(w http.ResponseWriter, r *http.Request) (*models.Claims, bool) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
	if !ok {
		response.Error(w, apperrors.UnauthorizedError("Authentication required"))
		return nil, false
	}

	return claims, true
}

// decodeAndValidate reads the JSON body into dest and runs struct validation,
// writing the error response itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, dest any) bool {
	if err := utils.DecodeJSONBody(r, dest); err != nil {
		response.Error(w, apperrors.BadRequestError("Invalid request body").WithError(err))
		return false
	}

	if err := utils.ValidateStruct(validate, dest); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			response.ValidationError(w, validationErrs)
		} else {
			response.Error(w, apperrors.BadRequestError("Invalid request body").WithError(err))
		}

		return false
	}

	return true
}

func parsePagination(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	if size < 1 || size > 100 {
		size = 20
	}

	return page, size
}
