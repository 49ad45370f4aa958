// Package server exposes layouts and MRCA indexes over HTTP.
//
// # Routes
//
//	POST   /v1/layouts                 lay out records, store each layout
//	GET    /v1/layouts/{id}            fetch a stored layout
//	DELETE /v1/layouts/{id}            delete a stored layout
//	POST   /v1/layouts/{id}/rescale    change the scale exponent
//	GET    /v1/layouts/{id}/dot        Graphviz DOT of a layout
//	POST   /v1/indexes                 store an estimate set
//	GET    /v1/indexes/{id}            summarize an estimate set
//	GET    /v1/indexes/{id}/lookup     look up one pair (?a=&b=&config=)
//	GET    /healthz                    build info
//	GET    /metrics                    Prometheus metrics, when configured
//
// Errors are JSON objects {"code": ..., "message": ...}. Malformed input maps
// to 400, lane exhaustion to 422, unknown IDs and pairs to 404.
package server

import (
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/phylolane/pkg/mrca"
	"github.com/matzehuels/phylolane/pkg/pipeline"
	"github.com/matzehuels/phylolane/pkg/store"
)

// DefaultMaxBodyBytes bounds request bodies when Options.MaxBodyBytes is 0.
const DefaultMaxBodyBytes = 64 << 20

// Options configure [New].
type Options struct {
	Runner *pipeline.Runner
	Store  store.Store

	// Layout holds defaults for layout requests; request fields override.
	Layout pipeline.Options
	// Index holds defaults for index requests.
	Index pipeline.IndexOptions

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler

	MaxBodyBytes int64
	Logger       *log.Logger
}

// Server handles the HTTP API. Create with [New].
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	layout  pipeline.Options
	index   pipeline.IndexOptions
	metrics http.Handler
	maxBody int64
	logger  *log.Logger

	indexMu sync.Mutex
	indexes map[string]*mrca.Index

	once    sync.Once
	handler http.Handler
}

// New creates a server. A nil runner uses an uncached runner and a nil
// store keeps documents in memory.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{
		runner:  opts.Runner,
		store:   opts.Store,
		layout:  opts.Layout,
		index:   opts.Index,
		metrics: opts.Metrics,
		maxBody: opts.MaxBodyBytes,
		logger:  opts.Logger,
		indexes: make(map[string]*mrca.Index),
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	s.once.Do(func() { s.handler = s.routes() })
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/layouts", func(r chi.Router) {
			r.Post("/", s.handleCreateLayouts)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetLayout)
				r.Delete("/", s.handleDeleteLayout)
				r.Post("/rescale", s.handleRescale)
				r.Get("/dot", s.handleDOT)
			})
		})
		r.Route("/indexes", func(r chi.Router) {
			r.Post("/", s.handleCreateIndex)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetIndex)
				r.Get("/lookup", s.handleLookup)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}
