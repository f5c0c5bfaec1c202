package controller

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/models"
	"carmod-configurator/utils"
)

// ErrorResponse is the body of every failed request
// Example: {"error": "year 1f2a... does not belong to model 9b1c...", "code": "ValidationError"}
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MaxBodyBytes caps every request body
const MaxBodyBytes = 1 << 20

var errBodyTooLarge = errors.New("request body too large")

var errorKinds = []struct {
	err    error
	status int
	code   string
}{
	{models.ErrValidation, http.StatusBadRequest, "ValidationError"},
	{models.ErrNotFound, http.StatusNotFound, "NotFound"},
	{models.ErrIncompatibleOption, http.StatusUnprocessableEntity, "IncompatibleOption"},
	{models.ErrInvalidState, http.StatusConflict, "InvalidState"},
	{models.ErrIllegalTransition, http.StatusConflict, "IllegalTransition"},
	{models.ErrReferentialConflict, http.StatusConflict, "ReferentialConflict"},
	{models.ErrConflict, http.StatusConflict, "Conflict"},
	{models.ErrTimeout, http.StatusGatewayTimeout, "Timeout"},
	{models.ErrStorageUnavailable, http.StatusServiceUnavailable, "StorageUnavailable"},
	{errBodyTooLarge, http.StatusRequestEntityTooLarge, "PayloadTooLarge"},
}

// StatusFor maps an error to its HTTP status and wire code
func StatusFor(err error) (int, string) {
	for _, kind := range errorKinds {
		if errors.Is(err, kind.err) {
			return kind.status, kind.code
		}
	}
	return http.StatusInternalServerError, "Internal"
}

func writeJSON(w http.ResponseWriter, op string, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("❌ %s: Error encoding response: %v", op, err)
	}
}

func writeError(w http.ResponseWriter, op string, err error) {
	status, code := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Errorf("❌ %s: Unexpected error: %+v", op, err)
		msg = "internal error"
	} else {
		log.Warnf("❌ %s: %s: %v", op, code, err)
	}
	writeJSON(w, op, status, ErrorResponse{Error: msg, Code: code})
}

// LimitBody caps the request body at MaxBodyBytes
func LimitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// decodeJSON reads the request body into v; malformed JSON is a validation error
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errors.Wrapf(errBodyTooLarge, "limit is %d bytes", tooLarge.Limit)
		}
		return errors.Wrapf(models.ErrValidation, "invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return utils.ParseID(mux.Vars(r)[name], name)
}

func queryID(r *http.Request, name string) (uuid.UUID, error) {
	return utils.ParseID(r.URL.Query().Get(name), name)
}

func optionalQueryID(r *http.Request, name string) (*uuid.UUID, error) {
	return utils.ParseOptionalID(r.URL.Query().Get(name), name)
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, errors.Wrapf(models.ErrValidation, "%s is required", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(models.ErrValidation, "invalid %s %q", name, raw)
	}
	return n, nil
}

func validationError(msg string) error {
	return errors.Wrap(models.ErrValidation, msg)
}
