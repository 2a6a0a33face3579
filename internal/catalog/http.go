package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ProductCatalog/pkg/kit"
)

const notFoundMsg = "Product not found"

type Server struct {
	Service *Service
	Log     *zap.Logger
}

// Routes serves the product resource. NewHandler mounts it at /products.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Post("/", s.create)
	r.Get("/{id}", s.get)
	r.Put("/{id}", s.update)

	return r
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	fields, err := kit.DecodeObject(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	p, err := s.Service.Create(r.Context(), fields)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	p, err := s.Service.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	fields, err := kit.DecodeObject(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	p, err := s.Service.Update(r.Context(), id, fields)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *ValidationError
		serr *StorageError
	)

	switch {
	case errors.As(err, &verr):
		kit.WriteError(w, r, http.StatusUnprocessableEntity, verr.Error(), verr.Fields)
	case errors.Is(err, ErrNotFound):
		kit.WriteJSON(w, http.StatusNotFound, kit.ErrorResponse{Error: notFoundMsg})
	case isTimeoutErr(err):
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
	case errors.As(err, &serr):
		s.logger().Error("catalog storage failed",
			zap.Error(err), zap.String("op", serr.Op), zap.String("path", serr.Path))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	default:
		s.logger().Error("catalog request failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func isTimeoutErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
