package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"spese/internal/core"
	"spese/internal/importer"
	"spese/internal/log"
	"spese/internal/services"
)

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	owner, err := parseOwner(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	currency := s.displayCurrency(r)

	views, err := s.records.Views(r.Context(), owner, currency)
	if err != nil {
		s.storeFailure(w, r, "List records failed", err, log.OpList)
		return
	}

	out := make([]recordResponse, len(views))
	for i, v := range views {
		out[i] = toRecordResponse(v.Record)
		out[i].Display = core.FormatAmount(v.DisplayAmount, currency)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"currency": currency,
		"records":  out,
	})
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	owner, err := parseOwner(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := decodeRecord(r.Body)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	saved, err := s.records.Add(r.Context(), owner, rec)
	if err != nil {
		s.writeServiceError(w, r, err, log.OpCreate)
		return
	}
	writeJSON(w, http.StatusCreated, toRecordResponse(saved))
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	owner, err := parseOwner(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := decodeRecord(r.Body)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	rec.ID = core.NewID(id)

	saved, err := s.records.Edit(r.Context(), owner, rec)
	if err != nil {
		s.writeServiceError(w, r, err, log.OpUpdate)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(saved))
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	owner, err := parseOwner(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.records.Remove(r.Context(), owner, id); err != nil {
		s.writeServiceError(w, r, err, log.OpDelete)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearRecords(w http.ResponseWriter, r *http.Request) {
	owner, err := parseOwner(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.records.Clear(r.Context(), owner); err != nil {
		s.storeFailure(w, r, "Clear records failed", err, log.OpClear)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleImport accepts a CSV body with columns date,name,amount,category,description.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	owner, err := parseOwner(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	n, err := s.records.Import(r.Context(), owner, body)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
	case errors.Is(err, importer.ErrMalformed):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	default:
		log.FromContext(r.Context()).WarnContext(r.Context(), "Import stopped early",
			log.FieldOwner, owner,
			log.FieldCount, n)
		s.storeFailure(w, r, "Import failed", err, log.OpImport)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	owner, err := parseOwner(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := s.records.Export(r.Context(), owner, &buf); err != nil {
		s.storeFailure(w, r, "Export failed", err, log.OpExport)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="records-%d.csv"`, owner))
	_, _ = buf.WriteTo(w)
}

func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrInvalidAmount) {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	writeError(w, http.StatusBadRequest, "invalid request body")
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, services.ErrInvalidRecord):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.storeFailure(w, r, "Record operation failed", err, op)
	}
}

func (s *Server) storeFailure(w http.ResponseWriter, r *http.Request, msg string, err error, op string) {
	log.FromContext(r.Context()).LogError(r.Context(), msg, err, op, nil)
	writeError(w, http.StatusInternalServerError, "internal error")
}
