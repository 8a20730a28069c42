package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"aiblty-platform/internal/domain"
	"aiblty-platform/internal/domain/model"
)

// ===== DTOs =====

type jobDTO struct {
	ID         string         `json:"id"`
	ProjectID  string         `json:"project_id,omitempty"`
	Type       string         `json:"type"`
	Status     string         `json:"status"`
	Progress   int            `json:"progress"`
	Result     map[string]any `json:"result,omitempty"`
	Error      string         `json:"error,omitempty"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func toJobDTO(j *model.Job) jobDTO {
	return jobDTO{
		ID:         j.ID,
		ProjectID:  j.ProjectID,
		Type:       string(j.Type),
		Status:     string(j.Status),
		Progress:   j.Progress,
		Result:     j.Result,
		Error:      j.Error,
		StartedAt:  j.StartedAt,
		FinishedAt: j.FinishedAt,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
}

type artifactDTO struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"project_id,omitempty"`
	JobID     string         `json:"job_id,omitempty"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func toArtifactDTO(a *model.Artifact) artifactDTO {
	return artifactDTO{
		ID:        a.ID,
		ProjectID: a.ProjectID,
		JobID:     a.JobID,
		Type:      a.Type,
		Title:     a.Title,
		Content:   a.Content,
		Metadata:  a.Metadata,
		CreatedAt: a.CreatedAt,
	}
}

type messageDTO struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type conversationDTO struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Messages  []messageDTO `json:"messages,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func toConversationDTO(c *model.Conversation, withMessages bool) conversationDTO {
	dto := conversationDTO{ID: c.ID, Title: c.Title, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
	if withMessages {
		dto.Messages = make([]messageDTO, 0, len(c.Messages))
		for _, m := range c.Messages {
			dto.Messages = append(dto.Messages, messageDTO{ID: m.ID, Role: m.Role, Content: m.Content, CreatedAt: m.CreatedAt})
		}
	}
	return dto
}

// ===== Helpers =====

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownCapability), errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrQuotaExhausted):
		status = http.StatusPaymentRequired
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrGatewayUnavailable):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func pagination(r *http.Request) (offset, limit int) {
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

// ===== Capabilities =====

func (s *Server) listCapabilities(w http.ResponseWriter, r *http.Request) {
	type capabilityDTO struct {
		Name        string `json:"name"`
		DisplayName string `json:"display_name"`
		Mode        string `json:"mode"`
	}
	caps := model.AllCapabilities()
	out := make([]capabilityDTO, 0, len(caps))
	for _, c := range caps {
		spec, _ := model.LookupCapability(c)
		out = append(out, capabilityDTO{Name: string(c), DisplayName: spec.DisplayName, Mode: spec.Mode})
	}
	writeJSON(w, http.StatusOK, struct {
		Data []capabilityDTO `json:"data"`
	}{Data: out})
}

type runRequest struct {
	Prompt    string `json:"prompt"`
	ProjectID string `json:"project_id"`
}

func (s *Server) runCapability(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	capability := model.Capability(chi.URLParam(r, "capability"))

	res, err := s.runUC.Run(r.Context(), UserID(r.Context()), capability, req.Prompt, req.ProjectID, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	artifacts := make([]artifactDTO, 0, len(res.Artifacts))
	for _, a := range res.Artifacts {
		artifacts = append(artifacts, toArtifactDTO(a))
	}
	writeJSON(w, http.StatusOK, struct {
		Job       jobDTO        `json:"job"`
		Artifacts []artifactDTO `json:"artifacts"`
	}{Job: toJobDTO(res.Job), Artifacts: artifacts})
}

func (s *Server) enqueueCapability(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	capability := model.Capability(chi.URLParam(r, "capability"))

	job, err := s.runUC.Enqueue(r.Context(), UserID(r.Context()), capability, req.Prompt, req.ProjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, struct {
		Job jobDTO `json:"job"`
	}{Job: toJobDTO(job)})
}

// ===== Jobs =====

// ownedJob hides other users' jobs behind 404.
func (s *Server) ownedJob(r *http.Request) (*model.Job, error) {
	job, err := s.jobsUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	if job.UserID != UserID(r.Context()) {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.ownedJob(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobDTO(job))
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	jobs, err := s.jobsUC.List(r.Context(), UserID(r.Context()), offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]jobDTO, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobDTO(j))
	}
	writeJSON(w, http.StatusOK, struct {
		Data   []jobDTO `json:"data"`
		Limit  int      `json:"limit"`
		Offset int      `json:"offset"`
	}{Data: out, Limit: limit, Offset: offset})
}

func (s *Server) listJobArtifacts(w http.ResponseWriter, r *http.Request) {
	job, err := s.ownedJob(r)
	if err != nil {
		writeError(w, err)
		return
	}
	artifacts, err := s.artifacts.FindByJob(r.Context(), nil, job.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]artifactDTO, 0, len(artifacts))
	for _, a := range artifacts {
		out = append(out, toArtifactDTO(a))
	}
	writeJSON(w, http.StatusOK, struct {
		Data []artifactDTO `json:"data"`
	}{Data: out})
}

// ===== Artifacts =====

func (s *Server) getArtifact(w http.ResponseWriter, r *http.Request) {
	artifact, err := s.artifacts.FindByID(r.Context(), nil, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if artifact.UserID != UserID(r.Context()) {
		writeError(w, domain.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toArtifactDTO(artifact))
}

func (s *Server) listArtifacts(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	artifacts, err := s.artifacts.FindByUser(r.Context(), nil, UserID(r.Context()), offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]artifactDTO, 0, len(artifacts))
	for _, a := range artifacts {
		out = append(out, toArtifactDTO(a))
	}
	writeJSON(w, http.StatusOK, struct {
		Data   []artifactDTO `json:"data"`
		Limit  int           `json:"limit"`
		Offset int           `json:"offset"`
	}{Data: out, Limit: limit, Offset: offset})
}

// ===== Conversations =====

func (s *Server) createConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	conv, err := s.chatUC.StartConversation(r.Context(), UserID(r.Context()), req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toConversationDTO(conv, false))
}

func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := s.chatUC.List(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]conversationDTO, 0, len(conversations))
	for _, c := range conversations {
		out = append(out, toConversationDTO(c, false))
	}
	writeJSON(w, http.StatusOK, struct {
		Data []conversationDTO `json:"data"`
	}{Data: out})
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.chatUC.Find(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConversationDTO(conv, true))
}

func (s *Server) deleteConversation(w http.ResponseWriter, r *http.Request) {
	if err := s.chatUC.DeleteConversation(r.Context(), UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) renameConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.chatUC.Rename(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"), req.Title); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	reply, err := s.chatUC.SendMessage(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Reply string `json:"reply"`
	}{Reply: reply})
}

// ===== Usage =====

func (s *Server) usageStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.usageUC.Check(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		CanProceed bool   `json:"can_proceed"`
		TokensUsed int    `json:"tokens_used"`
		DailyLimit int    `json:"daily_limit"`
		Remaining  int    `json:"remaining"`
		Plan       string `json:"plan"`
	}{
		CanProceed: status.CanProceed,
		TokensUsed: status.TokensUsed,
		DailyLimit: status.DailyLimit,
		Remaining:  status.Remaining,
		Plan:       status.Plan,
	})
}
