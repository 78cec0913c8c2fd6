package rest

import (
	"encoding/json"
	"net/http"

	"github.com/dtroode/hurtle-auth/internal/model"
)

// envelope is the body shape the web client expects: {"data": ...}.
type envelope struct {
	Data any `json:"data"`
}

type errorBody struct {
	Errors string     `json:"errors"`
	Kind   model.Kind `json:"kind"`
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	kind := model.KindOf(err)
	writeJSON(w, statusOf(kind), errorBody{Errors: kind.Message(), Kind: kind})
}

func statusOf(kind model.Kind) int {
	switch kind {
	case model.KindAccountNotFound:
		return http.StatusNotFound
	case model.KindInvalidPassword, model.KindMalformed, model.KindBadSignature, model.KindExpired:
		return http.StatusUnauthorized
	case model.KindWrongAuthMethod, model.KindProviderMismatch, model.KindIdentifierTaken:
		return http.StatusConflict
	case model.KindInvalidInput:
		return http.StatusBadRequest
	case model.KindStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
