package server

import (
	"encoding/json"
	"net/http"

	"github.com/hyperjump/vectord/internal/errs"
	"github.com/hyperjump/vectord/internal/models"
	"go.uber.org/zap"
)

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.Init(r.Context())
	if err != nil {
		s.logger.Error("init failed", zap.Error(err))
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errs.InvalidArgument("invalid request body"))
		return
	}
	resp, err := s.svc.Search(r.Context(), &req)
	if err != nil {
		if errs.StatusClass(err) == errs.StatusInternal {
			s.logger.Error("search failed", zap.Error(err))
		}
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.Status(r.Context())
	if err != nil {
		s.logger.Error("status failed", zap.Error(err))
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	s.respondJSON(w, errs.HTTPStatus(err), models.ErrorResponse{
		Error: err.Error(),
		Code:  errs.StatusClass(err),
	})
}
