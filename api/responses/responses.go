package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/estorelabs/storefront/pkg/errors"
	"github.com/estorelabs/storefront/pkg/logger"
)

// WriteJSON writes data as a bare JSON body. Collection and entity endpoints
// deliberately skip an envelope so the storefront client can decode straight
// into its models.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}

type errorBody struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// WriteError logs err and writes the error envelope with a status derived
// from the error code.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())
	msg := meta.PublicMessage
	if meta.DetailsAllowed && typed.Message() != "" {
		msg = typed.Message()
	}

	body := errorBody{Error: apiError{
		Code:    string(typed.Code()),
		Message: msg,
	}}
	if meta.DetailsAllowed {
		body.Error.Details = typed.Details()
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)
		ctx = logg.WithFields(ctx, map[string]any{
			"error":       dump.TopMessage,
			"error_code":  dump.Code,
			"error_chain": dump.Chain,
		})
		logg.Error(ctx, "request.error", err)
	}

	WriteJSON(w, httpStatus(typed.Code()), body)
}

func httpStatus(code pkgerrors.Code) int {
	switch code {
	case pkgerrors.CodeValidation, pkgerrors.CodeLogic:
		return http.StatusBadRequest
	case pkgerrors.CodeNotFound, pkgerrors.CodeNoResults:
		return http.StatusNotFound
	case pkgerrors.CodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
