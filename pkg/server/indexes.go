package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/phylolane/pkg/cache"
	"github.com/matzehuels/phylolane/pkg/errors"
	"github.com/matzehuels/phylolane/pkg/mrca"
	"github.com/matzehuels/phylolane/pkg/observability"
	"github.com/matzehuels/phylolane/pkg/store"
)

type indexRequest struct {
	Estimates  []mrca.Estimate `json:"estimates"`
	Duplicates *string         `json:"duplicates,omitempty"`
}

type indexResponse struct {
	ID             string   `json:"id"`
	Estimates      int      `json:"estimates"`
	Pairs          int      `json:"pairs"`
	Configurations []string `json:"configurations"`
}

func summarize(id string, estimates int, idx *mrca.Index) indexResponse {
	return indexResponse{
		ID:             id,
		Estimates:      estimates,
		Pairs:          idx.Len(),
		Configurations: idx.Configurations(),
	}
}

// handleCreateIndex stores an estimate set. Uploading the same estimates
// with the same duplicate policy again returns the existing index.
func (s *Server) handleCreateIndex(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	opts := s.index
	if req.Duplicates != nil {
		opts.Duplicates = *req.Duplicates
	}
	ctx := r.Context()

	hash, err := cache.HashJSON(req.Estimates)
	if err != nil {
		writeError(w, err)
		return
	}
	key := s.runner.Keyer.IndexKey(hash, cache.IndexKeyOpts{Duplicates: opts.Duplicates})
	hooks := observability.Cache()
	if data, ok, err := s.runner.Cache.Get(ctx, key); err == nil && ok {
		if idx, err := s.loadIndex(r, string(data)); err == nil {
			hooks.OnCacheHit(ctx, "index")
			writeJSON(w, http.StatusOK, summarize(string(data), len(req.Estimates), idx))
			return
		}
	}
	hooks.OnCacheMiss(ctx, "index")

	idx, err := s.runner.BuildIndex(ctx, req.Estimates, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	doc := &store.IndexDoc{Hash: hash, Duplicates: opts.Duplicates, Estimates: req.Estimates}
	if err := s.store.SaveIndex(ctx, doc); err != nil {
		writeError(w, err)
		return
	}
	s.remember(doc.ID, idx)
	if err := s.runner.Cache.Set(ctx, key, []byte(doc.ID), cache.TTLIndex); err == nil {
		hooks.OnCacheSet(ctx, "index", len(doc.ID))
	}
	writeJSON(w, http.StatusCreated, summarize(doc.ID, len(req.Estimates), idx))
}

func (s *Server) handleGetIndex(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.store.GetIndex(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	idx, err := s.loadIndex(r, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(id, len(doc.Estimates), idx))
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, b, cfg := q.Get("a"), q.Get("b"), q.Get("config")
	if a == "" || b == "" || cfg == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "query parameters a, b and config are required"))
		return
	}
	idx, err := s.loadIndex(r, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	e, ok := idx.Lookup(a, b, cfg)
	if !ok {
		writeError(w, notFound("no estimate for %s and %s under %s", a, b, cfg))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// loadIndex returns the built index for id, rebuilding it from the store on
// first use.
func (s *Server) loadIndex(r *http.Request, id string) (*mrca.Index, error) {
	s.indexMu.Lock()
	idx, ok := s.indexes[id]
	s.indexMu.Unlock()
	if ok {
		return idx, nil
	}
	doc, err := s.store.GetIndex(r.Context(), id)
	if err != nil {
		return nil, err
	}
	idx, err = doc.Build()
	if err != nil {
		return nil, err
	}
	s.remember(id, idx)
	return idx, nil
}

func (s *Server) remember(id string, idx *mrca.Index) {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	s.indexes[id] = idx
}
