package catalog

import (
	"errors"
	"net/http"
	"net/url"
	"slices"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ChainStore/pkg/kit"
)

// Server exposes the read-only queries of a loaded Catalog over HTTP.
// Handlers never mutate the catalog.
type Server struct {
	Catalog *Catalog
	Log     *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	s.register(r)
	return r
}

func (s *Server) register(r chi.Router) {
	r.Use(s.requireCatalog)

	r.Get("/chains", s.chains)
	r.Get("/chains/{chain}/stores", s.stores)
	r.Get("/chains/{chain}/stores/{store}/selection", s.selection)

	r.Get("/products", s.products)
	r.Get("/products/{product}/cheapest", s.cheapest)
}

func (s *Server) requireCatalog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Catalog == nil {
			kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog not loaded", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if s.Catalog == nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed: catalog not loaded")
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) chains(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, slices.AppendSeq([]string{}, s.Catalog.Chains()))
}

func (s *Server) stores(w http.ResponseWriter, r *http.Request) {
	chainName := pathParam(r, "chain")

	stores, err := s.Catalog.Stores(chainName)
	if err != nil {
		s.writeLookupError(w, r, err, map[string]any{"chain": chainName})
		return
	}
	kit.WriteJSON(w, http.StatusOK, stores)
}

func (s *Server) selection(w http.ResponseWriter, r *http.Request) {
	chainName := pathParam(r, "chain")
	storeName := pathParam(r, "store")

	listings, err := s.Catalog.Selection(chainName, storeName)
	if err != nil {
		s.writeLookupError(w, r, err, map[string]any{"chain": chainName, "store": storeName})
		return
	}
	kit.WriteJSON(w, http.StatusOK, listings)
}

func (s *Server) products(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Products())
}

func (s *Server) cheapest(w http.ResponseWriter, r *http.Request) {
	product := pathParam(r, "product")

	res := s.Catalog.Cheapest(product)
	if res.Status == NotFound {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"product": product})
		return
	}
	kit.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) writeLookupError(w http.ResponseWriter, r *http.Request, err error, details map[string]any) {
	switch {
	case errors.Is(err, ErrUnknownChain):
		kit.WriteError(w, r, http.StatusNotFound, ErrUnknownChain.Error(), details)
	case errors.Is(err, ErrUnknownStore):
		kit.WriteError(w, r, http.StatusNotFound, ErrUnknownStore.Error(), details)
	default:
		if s.Log != nil {
			s.Log.Error("catalog lookup failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

// pathParam returns a decoded chi URL parameter. chi matches on RawPath when
// it is set, so escaped segments need unescaping.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
