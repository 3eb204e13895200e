package content

import (
	"errors"
	"net/http"

	"github.com/w-h-a/validated-content/internal/service/content"
)

type errorBody struct {
	Detail any `json:"detail"`
}

// StatusOf maps an error to a status code and the detail clients receive.
// Validation failures carry the field list, everything else a message.
func StatusOf(err error) (int, any) {
	var e *content.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, err.Error()
	}

	switch e.Kind {
	case content.KindValidationFailed:
		fields := e.Fields
		if fields == nil {
			fields = []content.FieldError{}
		}
		return http.StatusUnprocessableEntity, fields
	case content.KindNotFound:
		return http.StatusNotFound, e.Error()
	default:
		return http.StatusInternalServerError, e.Error()
	}
}
