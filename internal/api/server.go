package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cmosher01/Gedcom-Web-View/internal/date"
	"github.com/cmosher01/Gedcom-Web-View/internal/domain"
	"github.com/cmosher01/Gedcom-Web-View/internal/library"
	"github.com/cmosher01/Gedcom-Web-View/internal/logging"
	"github.com/google/uuid"
)

// Server handles HTTP requests for the genealogy JSON API
type Server struct {
	lib  atomic.Pointer[library.Library]
	addr string
	log  *slog.Logger
}

// New creates a new API server
func New(lib *library.Library, addr string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{addr: addr, log: log}
	s.lib.Store(lib)
	return s
}

// Swap replaces the library being served and returns the previous one.
// Requests already in flight finish against the library they started with.
func (s *Server) Swap(lib *library.Library) *library.Library {
	return s.lib.Swap(lib)
}

// Handler returns the routes of the API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Files
	mux.HandleFunc("GET /files", s.listFiles)
	mux.HandleFunc("GET /files/{file}/people", s.listPeople)
	mux.HandleFunc("GET /files/{file}/people/{uuid}", s.getPerson)

	// Search
	mux.HandleFunc("GET /search", s.searchPeople)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return withCORS(logging.Middleware(s.log, mux))
}

// Run starts the HTTP server and stops it when ctx is done
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting server", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	lib := s.lib.Load()
	files, err := lib.Files()
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if files == nil {
		files = []domain.GedcomFile{}
	}

	failures := make(map[string]string)
	for name, err := range lib.Failures() {
		failures[name] = err.Error()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"files":    files,
		"failures": failures,
	})
}

// PersonSummary is a person as listed in an index. Dates of private
// people are withheld.
type PersonSummary struct {
	ID      string `json:"id"`
	UUID    string `json:"uuid,omitempty"`
	Name    string `json:"name"`
	Birth   string `json:"birth,omitempty"`
	Death   string `json:"death,omitempty"`
	Private bool   `json:"private,omitempty"`
}

func summarize(p *domain.Person) *PersonSummary {
	if p == nil {
		return nil
	}
	sum := &PersonSummary{ID: p.ID, Name: p.Name, Private: p.Private}
	if p.HasUUID() {
		sum.UUID = p.UUID.String()
	}
	if !p.Private {
		sum.Birth, sum.Death = dateString(p.Birth()), dateString(p.Death())
	}
	return sum
}

func dateString(d *date.DatePeriod) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func (s *Server) listPeople(w http.ResponseWriter, r *http.Request) {
	lib := s.lib.Load()
	file, err := lib.File(r.PathValue("file"))
	if err != nil {
		s.lookupError(w, r, err)
		return
	}
	people, err := lib.AllPeople(file.Name)
	if err != nil {
		s.lookupError(w, r, err)
		return
	}

	out := make([]*PersonSummary, 0, len(people))
	for _, p := range people {
		out = append(out, summarize(p))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"file":   file,
		"people": out,
	})
}

// PartnershipResponse is one partnership of a person
type PartnershipResponse struct {
	Partner  *PersonSummary   `json:"partner,omitempty"`
	Children []*PersonSummary `json:"children"`
	Events   []*domain.Event  `json:"events"`
	Private  bool             `json:"private,omitempty"`
}

// PersonResponse is the full page of one person
type PersonResponse struct {
	Person       *PersonSummary        `json:"person"`
	Events       []*domain.Event       `json:"events"`
	Father       *PersonSummary        `json:"father,omitempty"`
	Mother       *PersonSummary        `json:"mother,omitempty"`
	Partnerships []PartnershipResponse `json:"partnerships"`
	Timeline     []domain.FamilyEvent  `json:"timeline"`
	Footnotes    []string              `json:"footnotes"`
	Xrefs        []string              `json:"xrefs"`
}

func (s *Server) getPerson(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	id, err := uuid.Parse(r.PathValue("uuid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid uuid")
		return
	}

	lib := s.lib.Load()
	ld, err := lib.Loader(file)
	if err != nil {
		s.lookupError(w, r, err)
		return
	}
	p, err := lib.Person(file, id)
	if err != nil {
		s.lookupError(w, r, err)
		return
	}
	xrefs, err := lib.Xrefs(file, id)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	lin := ld.Lineage()
	resp := PersonResponse{
		Person:       summarize(p),
		Events:       []*domain.Event{},
		Father:       summarize(lin.Father(p)),
		Mother:       summarize(lin.Mother(p)),
		Partnerships: []PartnershipResponse{},
		Timeline:     []domain.FamilyEvent{},
		Footnotes:    []string{},
		Xrefs:        xrefs,
	}
	if resp.Xrefs == nil {
		resp.Xrefs = []string{}
	}

	for _, pa := range p.Partnerships {
		pr := PartnershipResponse{
			Partner:  summarize(lin.Partner(pa)),
			Children: []*PersonSummary{},
			Events:   []*domain.Event{},
			Private:  p.Private || lin.IsPrivate(pa),
		}
		for _, c := range lin.Children(pa) {
			pr.Children = append(pr.Children, summarize(c))
		}
		if !pr.Private && len(pa.Events) > 0 {
			pr.Events = pa.Events
		}
		resp.Partnerships = append(resp.Partnerships, pr)
	}

	if !p.Private {
		resp.Events = p.Events
		if notes := lib.FootnotesFor(p).Notes(); len(notes) > 0 {
			resp.Footnotes = notes
		}
		for _, fe := range ld.Timeline(p) {
			if !fe.IsPrivate() {
				resp.Timeline = append(resp.Timeline, fe)
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

const defaultSearchLimit = 50

func (s *Server) searchPeople(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	limit := defaultSearchLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	people, err := s.lib.Load().Search(query, limit)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if people == nil {
		people = []domain.PersonRef{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"people": people,
		"query":  query,
	})
}

func (s *Server) lookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, library.ErrFileNotFound) || errors.Is(err, library.ErrPersonNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.internalError(w, r, err)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
