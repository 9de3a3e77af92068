package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func parseInt16(r *http.Request, name string) (int16, error) {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 16)
	return int16(v), err
}

func parseInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
}

func parseInt(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return fallback
	}
	return v
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleObsToAbs(w http.ResponseWriter, r *http.Request) {
	street, err := parseInt16(r, "street")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	obs, err := parseInt64(r, "obs")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	abs, err := s.store.ObsToAbs(r.Context(), street, obs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int16{"abs": abs})
}

func (s *Server) handleObsEquity(w http.ResponseWriter, r *http.Request) {
	street, err := parseInt16(r, "street")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	obs, err := parseInt64(r, "obs")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	equity, err := s.store.ObsEquity(r.Context(), street, obs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"equity": equity})
}

func (s *Server) handleObsHistogram(w http.ResponseWriter, r *http.Request) {
	street, err := parseInt16(r, "street")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	obs, err := parseInt64(r, "obs")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	hist, err := s.store.ObsHistogram(r.Context(), street, obs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"histogram": hist})
}

func (s *Server) handleAbsDistance(w http.ResponseWriter, r *http.Request) {
	street, err := parseInt16(r, "street")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	a, err := parseInt16(r, "a")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	b, err := parseInt16(r, "b")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	dx, err := s.store.AbsDistance(r.Context(), street, a, b)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"dx": dx})
}

func (s *Server) handleKNN(w http.ResponseWriter, r *http.Request) {
	street, abs, k, err := parseKExtremeArgs(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	out, err := s.store.KNearest(r.Context(), street, abs, k)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"neighbors": out})
}

func (s *Server) handleKFN(w http.ResponseWriter, r *http.Request) {
	street, abs, k, err := parseKExtremeArgs(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	out, err := s.store.KFarthest(r.Context(), street, abs, k)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"neighbors": out})
}

func parseKExtremeArgs(r *http.Request) (street int16, abs int16, k int, err error) {
	street, err = parseInt16(r, "street")
	if err != nil {
		return
	}
	abs, err = parseInt16(r, "abs")
	if err != nil {
		return
	}
	k = parseInt(r, "k", 10)
	return
}

func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	past, err := parseInt64(r, "past")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	present, err := parseInt16(r, "present")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	choices, err := parseInt64(r, "choices")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entries, err := s.store.Policy(r.Context(), past, present, choices)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
