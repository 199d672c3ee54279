package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/x1mrdonut1x/trade-link-sub000/internal/importer"
	"github.com/x1mrdonut1x/trade-link-sub000/internal/store"
)

// handleProcess runs the preview phase over an uploaded CSV file.
//
// Multipart form fields:
//
//	file     - the CSV bytes (required)
//	mappings - JSON importer.FieldMappings (required)
//	mode     - companies | contacts | mixed (required)
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read file: %w", err), http.StatusInternalServerError)
		return
	}

	var mappings importer.FieldMappings
	if err := json.Unmarshal([]byte(r.FormValue("mappings")), &mappings); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid mappings format")
		return
	}

	mode, err := importer.ParseMode(r.FormValue("mode"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	result, err := s.service.Preview(r.Context(), data, mappings, mode)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, result)
}

// executeRequest is the JSON body of an execute call: the
// reviewer-approved entries from a prior preview.
type executeRequest struct {
	Companies []importer.Entry[importer.CompanyData] `json:"companies"`
	Contacts  []importer.Entry[importer.ContactData] `json:"contacts"`
}

// handleExecute persists approved entries. The response is always 200;
// callers must check success and errors in the body.
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)

	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := s.service.Execute(r.Context(), req.Companies, req.Contacts)
	writeJSON(w, result)
}

// handleTemplate serves a header-only import template for an entity
// kind, as CSV (default) or XLSX via ?format=xlsx.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")

	switch r.URL.Query().Get("format") {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_import_template.csv", entity))
		if err := importer.WriteTemplateCSV(w, entity); err != nil {
			s.respondError(w, r, err, http.StatusBadRequest)
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_import_template.xlsx", entity))
		if err := importer.WriteTemplateXLSX(w, entity); err != nil {
			s.respondError(w, r, err, http.StatusBadRequest)
		}
	default:
		writeErrorMessage(w, http.StatusBadRequest, "format must be csv or xlsx")
	}
}

// handleListHistory lists recent execution runs.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	runs := s.service.Runs()
	if runs == nil {
		writeErrorMessage(w, http.StatusNotFound, "run history is not configured")
		return
	}

	list, err := runs.ListRuns(r.Context(), s.cfg.Import.HistoryLimit)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"runs": list})
}

func (s *Server) mappingStore(w http.ResponseWriter) importer.MappingStore {
	mappings := s.service.Mappings()
	if mappings == nil {
		writeErrorMessage(w, http.StatusNotFound, "saved mappings are not configured")
		return nil
	}
	return mappings
}

// handleListMappings lists saved mappings, optionally filtered by
// ?entity=company|contact.
func (s *Server) handleListMappings(w http.ResponseWriter, r *http.Request) {
	mappings := s.mappingStore(w)
	if mappings == nil {
		return
	}

	list, err := mappings.ListMappings(r.Context(), r.URL.Query().Get("entity"))
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"mappings": list})
}

// handleSaveMapping stores a named mapping set for reuse.
func (s *Server) handleSaveMapping(w http.ResponseWriter, r *http.Request) {
	mappings := s.mappingStore(w)
	if mappings == nil {
		return
	}

	var m importer.SavedMapping
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if m.Name == "" {
		writeErrorMessage(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := importer.ValidateMappings(m.Mappings); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	saved, err := mappings.SaveMapping(r.Context(), m)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, saved)
}

func (s *Server) handleGetMapping(w http.ResponseWriter, r *http.Request) {
	mappings := s.mappingStore(w)
	if mappings == nil {
		return
	}

	m, err := mappings.GetMapping(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrMappingNotFound) {
			writeErrorMessage(w, http.StatusNotFound, "mapping not found")
			return
		}
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, m)
}

func (s *Server) handleDeleteMapping(w http.ResponseWriter, r *http.Request) {
	mappings := s.mappingStore(w)
	if mappings == nil {
		return
	}

	if err := mappings.DeleteMapping(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrMappingNotFound) {
			writeErrorMessage(w, http.StatusNotFound, "mapping not found")
			return
		}
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}
