// Copyright 2025 Scott Friedman
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server exposes a registry.Store for browsing over HTTP: a thin
// handler layer that delegates every request straight to the store, the
// same "handler delegates to a service" shape the command layer uses
// against the core reader.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/scttfrdmn/zisraw/internal/registry"
)

// Server serves a registry.Store's contents over HTTP.
type Server struct {
	store *registry.Store
	mux   *http.ServeMux
}

// New builds a Server over store.
func New(store *registry.Store) *Server {
	s := &Server{store: store, mux: http.NewServeMux()}
	s.routes()
	return s
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

// ServeHTTP lets Server itself be used as an http.Handler, e.g. from
// httptest.NewServer in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /images", s.handleListImages)
	s.mux.HandleFunc("GET /images/{guid}", s.handleGetImage)
	s.mux.HandleFunc("GET /images/{guid}/thumbnail", s.handleThumbnail)
	s.mux.HandleFunc("GET /images/{guid}/metadata.xml", s.handleMetadataXML)
}

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	descriptors, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, descriptors)
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	guid, ok := parseGUID(w, r)
	if !ok {
		return
	}
	desc, ok, err := s.store.Describe(r.Context(), guid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("image %s not registered", guid))
		return
	}
	writeJSON(w, http.StatusOK, desc)
}

func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	guid, ok := parseGUID(w, r)
	if !ok {
		return
	}
	data, contentType, ok, err := s.store.ThumbnailByGUID(r.Context(), guid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("image %s has no thumbnail", guid))
		return
	}
	if contentType != "" {
		w.Header().Set("Content-Type", "image/"+contentType)
	}
	_, _ = w.Write(data)
}

func (s *Server) handleMetadataXML(w http.ResponseWriter, r *http.Request) {
	guid, ok := parseGUID(w, r)
	if !ok {
		return
	}
	xml, ok, err := s.store.MetadataXMLByGUID(r.Context(), guid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("image %s not registered", guid))
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write([]byte(xml))
}

func parseGUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.PathValue("guid")
	guid, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid guid %q: %w", raw, err))
		return uuid.UUID{}, false
	}
	return guid, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
