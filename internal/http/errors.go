package httpapi

import (
	"net/http"

	"github.com/pkg/errors"

	"medicare/internal/domain"
)

const (
	flashInfo  = "info"
	flashError = "error"
)

const (
	msgCatalogUnavailable = "could not load medicines, please try again later"
	msgInternal           = "something went wrong, please try again"
)

func mapErrorToStatus(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsCatalogLoad(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the text shown for err. what names the thing that failed
// to save, e.g. "order".
func userMessage(err error, what string) string {
	var ve domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return string(ve)
	case domain.IsCatalogLoad(err):
		return msgCatalogUnavailable
	case domain.IsStoreWrite(err):
		return "could not save your " + what + ", please try again"
	default:
		return msgInternal
	}
}
