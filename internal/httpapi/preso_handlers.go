package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"custodia.org/internal/audit"
	"custodia.org/internal/preso"
)

type batchDeleteRequest struct {
	IDs []string `json:"ids"`
}

const (
	msgRecordNotFound = "Registro não encontrado."
	msgIDsRequired    = "A lista de ids é obrigatória."
	msgInternalError  = "Erro interno do servidor."
)

func (a *API) handlePresosCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listPresos(w, r)
	case http.MethodPost:
		a.createPreso(w, r)
	case http.MethodDelete:
		RequireAdmin(http.HandlerFunc(a.deletePresoBatch)).ServeHTTP(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (a *API) handlePresoResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/presos/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, msgRecordNotFound)
		return
	}

	switch r.Method {
	case http.MethodPut:
		a.updatePreso(w, r, id)
	case http.MethodDelete:
		RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.deletePreso(w, r, id)
		})).ServeHTTP(w, r)
	default:
		methodNotAllowed(w, r, http.MethodPut, http.MethodDelete)
	}
}

// listPresos returns every record ordered for triage: priority tier first,
// longest-pending first within a tier. The elapsed-days snapshot is taken
// once per request.
func (a *API) listPresos(w http.ResponseWriter, r *http.Request) {
	records, err := a.presos.List(r.Context())
	if err != nil {
		internalError(w, r)
		return
	}
	preso.SortByPriority(records, time.Now().UTC())
	if records == nil {
		records = []preso.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (a *API) createPreso(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := a.presos.Insert(r.Context(), preso.PayloadFromMap(body))
	if err != nil {
		internalError(w, r)
		return
	}

	_ = audit.LogEvent(r.Context(), "preso.create", map[string]any{"record_id": rec.ID})

	writeJSON(w, http.StatusCreated, rec)
}

func (a *API) updatePreso(w http.ResponseWriter, r *http.Request, id string) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := a.presos.Update(r.Context(), id, preso.PayloadFromMap(body))
	if err != nil {
		if errors.Is(err, preso.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, msgRecordNotFound)
			return
		}
		internalError(w, r)
		return
	}

	_ = audit.LogEvent(r.Context(), "preso.update", map[string]any{"record_id": id})

	writeJSON(w, http.StatusOK, rec)
}

func (a *API) deletePreso(w http.ResponseWriter, r *http.Request, id string) {
	err := a.presos.Delete(r.Context(), id)
	if err != nil && !errors.Is(err, preso.ErrNotFound) {
		internalError(w, r)
		return
	}
	// Deleting an absent id still answers 204: the end state is the same.
	_ = audit.LogEvent(r.Context(), "preso.delete", map[string]any{"record_id": id})
	w.WriteHeader(http.StatusNoContent)
}

// deletePresoBatch is best-effort, not atomic: a failure partway leaves the
// earlier deletions in place.
func (a *API) deletePresoBatch(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	ids := make([]string, 0, len(req.IDs))
	for _, id := range req.IDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		writeError(w, r, http.StatusBadRequest, msgIDsRequired)
		return
	}

	if err := a.presos.DeleteMany(r.Context(), ids); err != nil {
		internalError(w, r)
		return
	}

	_ = audit.LogEvent(r.Context(), "preso.delete_batch", map[string]any{"count": len(ids)})

	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

// decodeBody reads an open JSON object, the schema-less record payload.
// The size cap is applied once by the MaxBodyBytes middleware.
func decodeBody(r *http.Request) (map[string]any, error) {
	var body map[string]any
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("request body is required")
		}
		return nil, err
	}
	return body, nil
}

// decodeJSON strictly decodes a typed request body.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func internalError(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusInternalServerError, msgInternalError)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
