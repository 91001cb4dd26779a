// Package library loads a directory of GEDCOM files and answers queries
// across them. Files are parsed concurrently, each by its own goroutine;
// the only shared state is the cross-file directory, which is written
// under a single lock.
package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cmosher01/Gedcom-Web-View/internal/domain"
	"github.com/cmosher01/Gedcom-Web-View/internal/gedcom"
	"github.com/cmosher01/Gedcom-Web-View/internal/loader"
	"github.com/cmosher01/Gedcom-Web-View/internal/store"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrFileNotFound   = errors.New("gedcom file not found")
	ErrPersonNotFound = errors.New("person not found")
	ErrNoFiles        = errors.New("no gedcom files")
)

// DefaultWorkers is the number of files parsed at once.
const DefaultWorkers = 4

// Library is the set of loaded files.
type Library struct {
	mu       sync.RWMutex
	loaders  map[string]*loader.Loader
	failures map[string]error
	store    *store.Store

	workers int
	log     *slog.Logger
	now     func() time.Time
	opts    []loader.Option
}

// Option configures a Library.
type Option func(*Library)

// WithWorkers limits how many files are parsed concurrently.
func WithWorkers(n int) Option {
	return func(lib *Library) {
		if n > 0 {
			lib.workers = n
		}
	}
}

// WithLogger sets the logger, which is also handed to every Loader.
func WithLogger(log *slog.Logger) Option {
	return func(lib *Library) { lib.log = log }
}

// WithLoaderOptions passes options through to loader.Load.
func WithLoaderOptions(opts ...loader.Option) Option {
	return func(lib *Library) { lib.opts = append(lib.opts, opts...) }
}

// New creates an empty library backed by an in-memory directory.
func New(opts ...Option) (*Library, error) {
	lib := &Library{
		loaders:  make(map[string]*loader.Loader),
		failures: make(map[string]error),
		workers:  DefaultWorkers,
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(lib)
	}
	s, err := store.New(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("open directory: %w", err)
	}
	lib.store = s
	return lib, nil
}

// Close releases the directory.
func (lib *Library) Close() error {
	return lib.store.Close()
}

// IsGedcomFile reports whether name has a .ged or .GED extension.
func IsGedcomFile(name string) bool {
	return strings.HasSuffix(name, ".ged") || strings.HasSuffix(name, ".GED")
}

// GedcomFiles lists the GEDCOM files directly inside dir, sorted by name.
func GedcomFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsGedcomFile(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, dir)
	}
	return paths, nil
}

// LoadDir loads every GEDCOM file in dir. A file that fails to parse is
// logged, recorded in Failures and skipped; LoadDir itself only fails when
// the directory cannot be read, the context ends or the directory cannot
// be updated.
func (lib *Library) LoadDir(ctx context.Context, dir string) error {
	paths, err := GedcomFiles(dir)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(lib.workers)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			name := filepath.Base(path)
			start := time.Now()
			tree, err := gedcom.ReadFile(path)
			if err != nil {
				lib.log.Warn("skipping unreadable gedcom file", "file", name, "error", err)
				lib.fail(name, err)
				return nil
			}
			ld := loader.Load(tree, name, lib.loaderOptions()...)
			lib.log.Debug("loaded gedcom file", "file", name, "people", len(ld.AllPeople()), "duration", time.Since(start))
			return lib.register(ld)
		})
	}
	return g.Wait()
}

// LoadReader loads one GEDCOM stream under the given name. Unlike LoadDir,
// a parse failure is returned.
func (lib *Library) LoadReader(name string, r io.Reader) (*loader.Loader, error) {
	tree, err := gedcom.ReadTree(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	ld := loader.Load(tree, name, lib.loaderOptions()...)
	if err := lib.register(ld); err != nil {
		return nil, err
	}
	return ld, nil
}

func (lib *Library) loaderOptions() []loader.Option {
	return append([]loader.Option{loader.WithLogger(lib.log)}, lib.opts...)
}

func (lib *Library) fail(name string, err error) {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	lib.failures[name] = err
}

// register publishes a completed Loader. Writes to the directory are
// serialized here.
func (lib *Library) register(ld *loader.Loader) error {
	people := ld.AllPeople()
	refs := make([]domain.PersonRef, 0, len(people))
	for _, p := range people {
		refs = append(refs, domain.PersonRef{
			UUID:     p.UUID,
			File:     ld.Name(),
			PersonID: p.ID,
			Name:     p.Name,
		})
	}

	lib.mu.Lock()
	defer lib.mu.Unlock()

	err := lib.store.AddFile(domain.GedcomFile{
		Name:        ld.Name(),
		Description: ld.Description(),
		People:      len(people),
		LoadedAt:    lib.now(),
	})
	if err != nil {
		return fmt.Errorf("register %s: %w", ld.Name(), err)
	}
	if err := lib.store.AddPeople(ld.Name(), refs); err != nil {
		return fmt.Errorf("register %s: %w", ld.Name(), err)
	}
	lib.loaders[ld.Name()] = ld
	delete(lib.failures, ld.Name())
	return nil
}

// Failures returns the files that could not be loaded, with their errors.
func (lib *Library) Failures() map[string]error {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	return maps.Clone(lib.failures)
}

// Files lists the loaded files by name.
func (lib *Library) Files() ([]domain.GedcomFile, error) {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	return lib.store.ListFiles()
}

// File returns the directory record of one loaded file.
func (lib *Library) File(name string) (*domain.GedcomFile, error) {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	f, err := lib.store.GetFile(name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	return f, err
}

// Loader returns the compiled model of one file.
func (lib *Library) Loader(name string) (*loader.Loader, error) {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	ld, ok := lib.loaders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	return ld, nil
}

// AllPeople returns the people of one file in file order.
func (lib *Library) AllPeople(name string) ([]*domain.Person, error) {
	ld, err := lib.Loader(name)
	if err != nil {
		return nil, err
	}
	return ld.AllPeople(), nil
}

// Person looks up a person of one file by UUID.
func (lib *Library) Person(name string, id uuid.UUID) (*domain.Person, error) {
	ld, err := lib.Loader(name)
	if err != nil {
		return nil, err
	}
	p := ld.LookUpPerson(id)
	if p == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrPersonNotFound, id, name)
	}
	return p, nil
}

// Xrefs returns the names of the other files holding a person with the
// same UUID.
func (lib *Library) Xrefs(name string, id uuid.UUID) ([]string, error) {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	return lib.store.CrossReferences(name, id)
}

// FootnotesFor numbers the notes and citations of a person's events.
func (lib *Library) FootnotesFor(p *domain.Person) *domain.Footnotes {
	return domain.CollectFootnotes(p)
}

// Search finds people in any file whose name contains q.
func (lib *Library) Search(q string, limit int) ([]domain.PersonRef, error) {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	return lib.store.SearchPeople(q, limit)
}
