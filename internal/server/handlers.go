package server

import (
	"cmp"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cratescore/pkg/catalog"
)

type listResponse struct {
	Total  int                      `json:"total"`
	Crates []catalog.GeneratedEntry `json:"crates"`
}

type topicCount struct {
	Topic  string `json:"topic"`
	Crates int    `json:"crates"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"entries": len(s.entries),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	matches := s.entries
	if topic := q.Get("topic"); topic != "" {
		matches = s.filter(topic)
	}

	switch q.Get("sort") {
	case "", "none":
	case "score":
		matches = sortedByScore(matches)
	case "name":
		matches = slices.Clone(matches)
		slices.SortStableFunc(matches, func(a, b catalog.GeneratedEntry) int {
			return cmp.Compare(a.Name(), b.Name())
		})
	default:
		writeError(w, http.StatusBadRequest, "sort must be one of: score, name")
		return
	}

	total := len(matches)
	if limitStr := q.Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		if n < len(matches) {
			matches = matches[:n]
		}
	}

	writeJSON(w, http.StatusOK, listResponse{Total: total, Crates: matches})
}

func (s *Server) handleCrate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	for i := range s.entries {
		if s.entries[i].Name() == name {
			writeJSON(w, http.StatusOK, s.entries[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "crate not found: "+name)
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int)
	for i := range s.entries {
		for _, t := range s.entries[i].Topics {
			counts[t]++
		}
	}
	out := make([]topicCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, topicCount{Topic: t, Crates: n})
	}
	slices.SortFunc(out, func(a, b topicCount) int {
		if c := cmp.Compare(b.Crates, a.Crates); c != 0 {
			return c
		}
		return cmp.Compare(a.Topic, b.Topic)
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	matches := sortedByScore(s.filter(topic))
	if len(matches) == 0 {
		writeError(w, http.StatusNotFound, "no crates for topic: "+topic)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Total: len(matches), Crates: matches})
}

func (s *Server) filter(topic string) []catalog.GeneratedEntry {
	out := []catalog.GeneratedEntry{}
	for i := range s.entries {
		if s.entries[i].HasTopic(topic) {
			out = append(out, s.entries[i])
		}
	}
	return out
}

// sortedByScore returns a copy ordered by descending score; ties keep
// dataset order.
func sortedByScore(entries []catalog.GeneratedEntry) []catalog.GeneratedEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b catalog.GeneratedEntry) int {
		return cmp.Compare(b.ScoreValue(), a.ScoreValue())
	})
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
