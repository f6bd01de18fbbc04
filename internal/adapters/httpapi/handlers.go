package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/example/upkeep/internal/models"
	"github.com/example/upkeep/internal/ports/primary"
	"github.com/example/upkeep/internal/report"
)

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req primary.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed JSON body", models.ErrValidation))
		return
	}

	task, err := s.svc.CreateTask(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.svc.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	filters := primary.TaskFilters{
		EquipmentID: r.URL.Query().Get("equipment"),
		CategoryID:  r.URL.Query().Get("category"),
		Status:      models.TaskStatus(r.URL.Query().Get("status")),
	}

	tasks, err := s.svc.ListTasks(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var patch primary.UpdateTaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, fmt.Errorf("%w: malformed JSON body", models.ErrValidation))
		return
	}

	task, err := s.svc.UpdateTask(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTask(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	var req primary.CompleteTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed JSON body", models.ErrValidation))
		return
	}
	req.TaskID = r.PathValue("id")

	result, err := s.svc.CompleteTask(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	referenceDate := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			writeError(w, fmt.Errorf("%w: date %q is not a YYYY-MM-DD date", models.ErrValidation, raw))
			return
		}
		referenceDate = parsed
	}

	alerts, err := s.svc.ListAlerts(r.Context(), referenceDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.svc.ListTasks(r.Context(), primary.TaskFilters{})
	if err != nil {
		writeError(w, err)
		return
	}
	alerts, err := s.svc.ListAlerts(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	buffer, err := report.GenerateExcelReport(tasks, alerts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="upkeep-report.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buffer.Bytes())
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps the error taxonomy onto HTTP status codes: invalid
// input is 400, missing records 404, and state conflicts (illegal
// transitions, immutable records, lost optimistic-concurrency races) 409.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidRule), errors.Is(err, report.ErrNoTasks):
		code = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrImmutableRecord),
		errors.Is(err, models.ErrConcurrentModification):
		code = http.StatusConflict
	}

	writeJSON(w, code, map[string]string{"error": err.Error()})
}
