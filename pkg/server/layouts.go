package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/phylolane/pkg/errors"
	"github.com/matzehuels/phylolane/pkg/export"
	"github.com/matzehuels/phylolane/pkg/layout"
	"github.com/matzehuels/phylolane/pkg/lineage"
	"github.com/matzehuels/phylolane/pkg/pipeline"
	"github.com/matzehuels/phylolane/pkg/store"
)

// layoutRequest is the body of POST /v1/layouts. Options fields absent from
// the body keep the server defaults.
type layoutRequest struct {
	Records []lineage.Record `json:"records"`
	Options pipeline.Options `json:"options"`
}

type layoutsResponse struct {
	Layouts []layout.Layout `json:"layouts"`
	Cached  int             `json:"cached"`
}

type rescaleRequest struct {
	Exponent float64 `json:"exponent"`
}

func (s *Server) handleCreateLayouts(w http.ResponseWriter, r *http.Request) {
	req := layoutRequest{Options: s.layout}
	if s.layout.Radius != nil {
		// Decoding writes through a non-nil pointer; keep the defaults intact.
		req.Options.Radius = pipeline.Radius(*s.layout.Radius)
	}
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Records) == 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "no records"))
		return
	}
	req.Options.Logger = nil

	res, err := s.runner.Execute(r.Context(), req.Records, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	for i := range res.Layouts {
		doc := &store.LayoutDoc{Layout: res.Layouts[i]}
		doc.Layout.ID = ""
		if err := s.store.SaveLayout(r.Context(), doc); err != nil {
			writeError(w, err)
			return
		}
		res.Layouts[i].ID = doc.ID
	}
	writeJSON(w, http.StatusCreated, layoutsResponse{
		Layouts: res.Layouts,
		Cached:  res.CacheInfo.LayoutHits,
	})
}

func (s *Server) loadLayout(r *http.Request) (*store.LayoutDoc, error) {
	doc, err := s.store.GetLayout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	doc.Layout.ID = doc.ID
	return doc, nil
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	doc, err := s.loadLayout(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc.Layout)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteLayout(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRescale recomputes coordinates under a new exponent and stores the
// result. Lanes never change.
func (s *Server) handleRescale(w http.ResponseWriter, r *http.Request) {
	var req rescaleRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	doc, err := s.loadLayout(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := doc.Layout.Rescale(req.Exponent); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.SaveLayout(r.Context(), doc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc.Layout)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	doc, err := s.loadLayout(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts := export.Options{Labels: r.URL.Query().Get("labels") == "true"}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(export.ToDOT(doc.Layout, opts)))
}
