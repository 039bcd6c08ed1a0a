package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jonathan/portfolio-keeper/internal/autosave"
	"github.com/jonathan/portfolio-keeper/internal/transfer"
	"github.com/jonathan/portfolio-keeper/internal/types"
)

// StatusResponse is the save status as shown to the user
type StatusResponse struct {
	State  autosave.State     `json:"state"`
	Kind   autosave.ErrorKind `json:"kind,omitempty"`
	Reason string             `json:"reason,omitempty"`
	Text   string             `json:"text"`
}

func newStatusResponse(st autosave.Status) StatusResponse {
	return StatusResponse{State: st.State, Kind: st.Kind, Reason: st.Reason, Text: st.Text()}
}

// DraftResponse is returned by every draft edit
type DraftResponse struct {
	Draft  types.PortfolioRecord `json:"draft"`
	Status StatusResponse        `json:"status"`
}

// SetFieldRequest is the body for PATCH /draft/fields/{field}
type SetFieldRequest struct {
	Value string `json:"value"`
}

// SetItemFieldRequest is the body for PUT /draft/{section}/{index}
type SetItemFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// SetLanguagesRequest is the body for PUT /draft/languages
type SetLanguagesRequest struct {
	Languages []string `json:"languages"`
}

// BackupEntry describes one backup snapshot
type BackupEntry struct {
	Index  int                   `json:"index"`
	Record types.PortfolioRecord `json:"record"`
}

func (s *Server) handleGetPortfolio(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.coord.Committed())
}

func (s *Server) handleGetDraft(w http.ResponseWriter, _ *http.Request) {
	s.draftResponse(w)
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	field, err := autosave.ParseField(r.PathValue("field"))
	if err != nil {
		s.errResponse(w, err)
		return
	}
	var req SetFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	s.applyEdit(w, autosave.SetField(field, req.Value))
}

func (s *Server) handleSetLanguages(w http.ResponseWriter, r *http.Request) {
	var req SetLanguagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	s.applyEdit(w, autosave.SetLanguages(req.Languages))
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	section, err := autosave.ParseSection(r.PathValue("section"))
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.applyEdit(w, autosave.AddItem(section))
}

func (s *Server) handleSetItemField(w http.ResponseWriter, r *http.Request) {
	section, err := autosave.ParseSection(r.PathValue("section"))
	if err != nil {
		s.errResponse(w, err)
		return
	}
	index, err := pathIndex(r)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	var req SetItemFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	edit, err := autosave.SetItemField(section, index, req.Field, req.Value)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.applyEdit(w, edit)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	section, err := autosave.ParseSection(r.PathValue("section"))
	if err != nil {
		s.errResponse(w, err)
		return
	}
	index, err := pathIndex(r)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.applyEdit(w, autosave.DeleteItem(section, index))
}

// handleFlush saves the pending draft without waiting for the debounce delay
func (s *Server) handleFlush(w http.ResponseWriter, r *http.Request) {
	if err := s.coord.Flush(r.Context()); err != nil {
		s.log.Debug("Flush reported a failed save", "error", err)
	}
	s.draftResponse(w)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, newStatusResponse(s.coord.Status()))
}

// handleStatusStream sends the current status, then every change, as SSE events
func (s *Server) handleStatusStream(w http.ResponseWriter, r *http.Request) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	updates, unsubscribe := s.hub.subscribe()
	defer unsubscribe()

	if err := sse.WriteStatus(s.coord.Status()); err != nil {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case st, ok := <-updates:
			if !ok {
				return
			}
			if err := sse.WriteStatus(st); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+transfer.DefaultExportName+`"`)
	if err := transfer.Export(w, s.coord.Committed()); err != nil {
		s.log.Warn("Export failed", "error", err)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	record, err := s.transfer.ImportAndCommit(r.Context(), r.Body)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

// handleClear resets everything to the default portfolio. The caller confirms with
// ?confirm=true; without it nothing changes.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	cleared, err := s.transfer.ClearAll(r.Context(), transfer.Always(confirm))
	if err != nil && !cleared {
		s.errResponse(w, err)
		return
	}
	resp := map[string]any{"cleared": cleared}
	if err != nil {
		resp["error"] = err.Error()
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleListBackups(w http.ResponseWriter, r *http.Request) {
	backups := s.gateway.Backups(r.Context())
	entries := make([]BackupEntry, 0, len(backups))
	for i, b := range backups {
		entries = append(entries, BackupEntry{Index: i, Record: b})
	}
	s.jsonResponse(w, http.StatusOK, entries)
}

// handleRestoreBackup saves a backup as the current record and resets the draft to it
func (s *Server) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	record, err := s.gateway.Backup(r.Context(), index)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	if err := s.coord.Commit(r.Context(), record); err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

func (s *Server) applyEdit(w http.ResponseWriter, edit autosave.Edit) {
	if err := s.coord.Update(edit); err != nil {
		s.errResponse(w, err)
		return
	}
	s.draftResponse(w)
}

func (s *Server) draftResponse(w http.ResponseWriter) {
	s.jsonResponse(w, http.StatusOK, DraftResponse{
		Draft:  s.coord.Draft(),
		Status: newStatusResponse(s.coord.Status()),
	})
}

func pathIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		return 0, &ErrValidation{Field: "index", Message: "must be a non-negative integer"}
	}
	return index, nil
}
