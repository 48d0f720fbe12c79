package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hyperjump/erabu/internal/engine"
	"github.com/hyperjump/erabu/internal/models"
)

type scoreRequest struct {
	Dir       string `json:"dir,omitempty"`
	Summaries bool   `json:"summaries,omitempty"`
}

type scoreResponse struct {
	Dir        string              `json:"dir"`
	Scanned    int                 `json:"ranked"`
	Candidates []*models.Candidate `json:"candidates"`
}

// handleScore runs a full scoring pass. The resume folder defaults to the
// configured watch directory; the request may point elsewhere.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	req := scoreRequest{Dir: s.config.Watch.Directory}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.Dir == "" {
		s.respondError(w, http.StatusBadRequest, "dir is required (request body or watch.directory config)")
		return
	}

	s.logger.Debug("score request", zap.String("dir", req.Dir), zap.Bool("summaries", req.Summaries))
	session, err := s.engine.Rescan(r.Context(), req.Dir)
	if err != nil {
		s.logger.Error("scoring pass failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.Summaries {
		if err := s.engine.Summarize(r.Context()); err != nil {
			switch {
			case errors.Is(err, engine.ErrNoAssistant):
				s.respondError(w, http.StatusNotImplemented, err.Error())
			default:
				s.logger.Error("summaries failed", zap.Error(err))
				s.respondError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
	}

	s.respondJSON(w, http.StatusOK, scoreResponse{
		Dir:        session.Dir,
		Scanned:    len(session.Candidates),
		Candidates: session.Candidates,
	})
}

// handleCandidates returns the ranked candidates of the current session.
func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	session := s.engine.Session()
	if session == nil {
		s.respondError(w, http.StatusConflict, engine.ErrNoSession.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"built_at":   session.BuiltAt,
		"candidates": session.Candidates,
	})
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string          `json:"answer"`
	Chunks []*models.Chunk `json:"chunks"`
}

// handleAsk answers a question grounded in the current session's chunks.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		s.respondError(w, http.StatusBadRequest, "question is required")
		return
	}

	s.logger.Debug("ask request", zap.String("question", req.Question))
	answer, chunks, err := s.engine.Ask(r.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrNoAssistant):
			s.respondError(w, http.StatusNotImplemented, err.Error())
		case errors.Is(err, engine.ErrNoSession):
			s.respondError(w, http.StatusConflict, err.Error())
		default:
			s.logger.Error("ask failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	s.respondJSON(w, http.StatusOK, askResponse{Answer: answer, Chunks: chunks})
}

// handleStatus reports the state of the current session and key settings.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"session": nil,
		"config": map[string]interface{}{
			"job_title":            s.config.Job.Title,
			"top_n":                s.config.Scoring.TopN,
			"top_k":                s.config.RAG.TopK,
			"title_sim_threshold":  s.config.Scoring.TitleSimThreshold,
			"embedding_dimensions": s.config.Embedding.Dimensions,
			"watch_directory":      s.config.Watch.Directory,
		},
	}
	if session := s.engine.Session(); session != nil {
		resp["session"] = map[string]interface{}{
			"dir":        session.Dir,
			"candidates": len(session.Candidates),
			"chunks":     len(session.Chunks),
			"index_size": session.Index.Size(),
			"built_at":   session.BuiltAt,
		}
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

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
