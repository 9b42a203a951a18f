package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/BigKAA/redpen-go/validator"
	"github.com/BigKAA/redpen-go/validator/contrib/catalogsync"
	"github.com/BigKAA/redpen-go/validator/contrib/hclconfig"
	"github.com/BigKAA/redpen-go/validator/contrib/yamlconfig"
)

const maxProfileSize = 1 << 20

// publisher is implemented by kafkapub.Publisher and amqppub.Publisher.
type publisher interface {
	Name() string
	Publish(ctx context.Context, snap validator.Snapshot) error
	Close() error
}

type server struct {
	factory     *validator.Factory
	store       validator.ProfileStore
	publishers  []publisher
	sync        *catalogsync.Scheduler // nil unless periodic publishing is enabled
	defaultLang string
	logger      *slog.Logger
}

func (s *server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", handleHealth())
	mux.HandleFunc("GET /health/publishers", s.handlePublisherHealth)
	mux.HandleFunc("GET /validators", s.handleListValidators)
	mux.HandleFunc("GET /validators/{name}", s.handleGetValidator)
	mux.HandleFunc("GET /profiles", s.handleListProfiles)
	mux.HandleFunc("GET /profiles/{name}", s.handleGetProfile)
	mux.HandleFunc("PUT /profiles/{name}", s.handlePutProfile)
	mux.HandleFunc("DELETE /profiles/{name}", s.handleDeleteProfile)
	mux.HandleFunc("POST /catalog/publish", s.handlePublish)
}

func (s *server) lang(r *http.Request) string {
	if l := r.URL.Query().Get("lang"); l != "" {
		return l
	}
	return s.defaultLang
}

func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}
}

func (s *server) handlePublisherHealth(w http.ResponseWriter, _ *http.Request) {
	health := map[string]bool{}
	if s.sync != nil {
		health = s.sync.Health()
	}
	writeJSON(w, http.StatusOK, health)
}

func (s *server) handleListValidators(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.factory.Configurations(s.lang(r)))
}

type validatorInfo struct {
	Name       string            `json:"name"`
	Languages  []string          `json:"languages"`
	Properties map[string]string `json:"properties"`
}

func (s *server) handleGetValidator(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	v, err := s.factory.GetInstance(name)
	if errors.Is(err, validator.ErrNoSuchValidator) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.logger.Error("validator: instance failed", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	langs := v.SupportedLanguages()
	if langs == nil {
		langs = []string{}
	}
	writeJSON(w, http.StatusOK, validatorInfo{
		Name:       validator.NameOf(v),
		Languages:  langs,
		Properties: validator.ToStrings(v.Properties()),
	})
}

func (s *server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no profile store configured"))
		return false
	}
	return true
}

func (s *server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	names, err := s.store.ListProfiles(r.Context())
	if err != nil {
		s.logger.Error("validator: list profiles failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	cfg, err := s.store.LoadProfile(r.Context(), r.PathValue("name"))
	if errors.Is(err, validator.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.logger.Error("validator: load profile failed", "name", r.PathValue("name"), "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handlePutProfile accepts a JSON Configuration, a YAML or an HCL document. The
// profile is stored only if every configured validator can be built.
func (s *server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	name := r.PathValue("name")
	if err := validator.ValidateProfileName(name); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxProfileSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cfg, err := decodeProfile(name, r.Header.Get("Content-Type"), body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, err := s.factory.Instantiate(cfg); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if err := s.store.SaveProfile(r.Context(), name, cfg); err != nil {
		s.logger.Error("validator: save profile failed", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.Info("validator: profile saved", "name", name, "validators", len(cfg.Validators))
	writeJSON(w, http.StatusOK, cfg)
}

func decodeProfile(name, contentType string, body []byte) (validator.Configuration, error) {
	mediaType, _, _ := strings.Cut(contentType, ";")
	switch strings.TrimSpace(mediaType) {
	case "application/json":
		var cfg validator.Configuration
		if err := json.Unmarshal(body, &cfg); err != nil {
			return validator.Configuration{}, fmt.Errorf("invalid JSON profile: %w", err)
		}
		return cfg, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return yamlconfig.Parse(body)
	}
	return hclconfig.Parse(name+".hcl", body)
}

func (s *server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	err := s.store.DeleteProfile(r.Context(), r.PathValue("name"))
	if errors.Is(err, validator.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type publishResult struct {
	Lang       string            `json:"lang"`
	Validators int               `json:"validators"`
	Published  []string          `json:"published"`
	Failed     map[string]string `json:"failed,omitempty"`
}

func (s *server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if len(s.publishers) == 0 {
		writeError(w, http.StatusServiceUnavailable, errors.New("no catalog publishers configured"))
		return
	}

	snap := s.factory.Snapshot(s.lang(r))
	res := publishResult{Lang: snap.Lang, Validators: len(snap.Validators), Published: []string{}}
	for _, p := range s.publishers {
		if err := p.Publish(r.Context(), snap); err != nil {
			s.logger.Error("validator: publish failed", "publisher", p.Name(), "lang", snap.Lang, "error", err)
			if res.Failed == nil {
				res.Failed = make(map[string]string)
			}
			res.Failed[p.Name()] = err.Error()
			continue
		}
		res.Published = append(res.Published, p.Name())
	}

	status := http.StatusOK
	if len(res.Failed) > 0 {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
