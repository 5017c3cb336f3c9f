package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxBodyBytes caps request bodies. The largest valid prompt is well below it.
const maxBodyBytes = 1 << 20

// promptRequest is the body accepted by create and update.
type promptRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// decodePrompt reads a single JSON object from the request body, rejecting
// unknown fields and trailing data.
func decodePrompt(w http.ResponseWriter, r *http.Request) (promptRequest, error) {
	var req promptRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return req, errors.New("request body is empty")
		case errors.As(err, &maxErr):
			return req, fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		default:
			return req, fmt.Errorf("invalid JSON body: %w", err)
		}
	}
	if dec.More() {
		return req, errors.New("request body must contain a single JSON object")
	}
	return req, nil
}

// parseID reads the {id} URL parameter as a UUID.
func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid prompt id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}
