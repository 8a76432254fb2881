package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encode response failed: request_id=%s error=%v", RequestIDFrom(r), err)
	}
}

func JSONSuccess(w http.ResponseWriter, r *http.Request, message string, data any) {
	writeJSON(w, r, http.StatusOK, Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, message string, data any) {
	writeJSON(w, r, statusCode, Response{
		Status:  StatusError,
		Message: message,
		Data:    data,
	})
}

// JSONUnexpected answers 500 and logs the cause.
func JSONUnexpected(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("unexpected error: request_id=%s method=%s path=%s error=%v", RequestIDFrom(r), r.Method, r.URL.Path, err)
	JSONError(w, r, http.StatusInternalServerError, "An unexpected error occurred: "+err.Error(), nil)
}

// JSONValidation answers 400 with the field error map as data.
func JSONValidation(w http.ResponseWriter, r *http.Request, errs ValidationErrors) {
	JSONError(w, r, http.StatusBadRequest, "Validation failed", errs)
}

func JSONTooLarge(w http.ResponseWriter, r *http.Request) {
	JSONError(w, r, http.StatusRequestEntityTooLarge, "Request body too large", nil)
}

// JSONDecodeError answers the error returned by DecodeAndValidate: 413 for
// an oversized body, 400 with the field map otherwise.
func JSONDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrBodyTooLarge) {
		JSONTooLarge(w, r)
		return
	}
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		JSONValidation(w, r, verrs)
		return
	}
	JSONUnexpected(w, r, err)
}
