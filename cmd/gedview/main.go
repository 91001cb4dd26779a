package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmosher01/Gedcom-Web-View/internal/api"
	"github.com/cmosher01/Gedcom-Web-View/internal/config"
	"github.com/cmosher01/Gedcom-Web-View/internal/domain"
	"github.com/cmosher01/Gedcom-Web-View/internal/fetcher"
	"github.com/cmosher01/Gedcom-Web-View/internal/gedcom"
	"github.com/cmosher01/Gedcom-Web-View/internal/library"
	"github.com/cmosher01/Gedcom-Web-View/internal/loader"
	"github.com/cmosher01/Gedcom-Web-View/internal/logging"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// reloadGrace is how long a replaced library stays open for requests
// that were already using it.
const reloadGrace = 30 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by every command once configuration is read
type app struct {
	cfg config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "gedview",
		Short:        "Browse GEDCOM genealogy files",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .gedview.yaml)")
	pf.String("dir", "gedcom", "directory of GEDCOM files")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")
	_ = viper.BindPFlag("gedcom_dir", pf.Lookup("dir"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))

	rootCmd.AddCommand(filesCmd(a))
	rootCmd.AddCommand(peopleCmd(a))
	rootCmd.AddCommand(personCmd(a))
	rootCmd.AddCommand(footnotesCmd(a))
	rootCmd.AddCommand(xrefCmd(a))
	rootCmd.AddCommand(searchCmd(a))
	rootCmd.AddCommand(treeCmd(a))
	rootCmd.AddCommand(serveCmd(a))

	return rootCmd
}

// init reads configuration and builds the logger
func (a *app) init(cmd *cobra.Command) error {
	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".gedview")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("GEDVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logging.New(level, format, cmd.ErrOrStderr())
	slog.SetDefault(a.log)
	return nil
}

func (a *app) newLibrary() (*library.Library, error) {
	return library.New(
		library.WithWorkers(a.cfg.Workers),
		library.WithLogger(a.log),
		library.WithLoaderOptions(loader.WithPrivacyYears(a.cfg.PrivacyYears)),
	)
}

// loadLibrary loads every GEDCOM file of the configured directory
func (a *app) loadLibrary(ctx context.Context) (*library.Library, error) {
	lib, err := a.newLibrary()
	if err != nil {
		return nil, err
	}
	if err := lib.LoadDir(ctx, a.cfg.GedcomDir); err != nil {
		lib.Close()
		return nil, err
	}
	return lib, nil
}

// open loads the library and resolves file, which is either the name of
// a file in the directory or the URL of a remote document. A remote
// document is registered under the last element of its path.
func (a *app) open(ctx context.Context, file string) (*library.Library, string, error) {
	if !fetcher.IsURL(file) {
		lib, err := a.loadLibrary(ctx)
		return lib, file, err
	}

	body, err := fetcher.New(a.cfg.FetchTimeout).Fetch(ctx, file)
	if err != nil {
		return nil, "", err
	}

	lib, err := a.newLibrary()
	if err != nil {
		return nil, "", err
	}
	if err := lib.LoadDir(ctx, a.cfg.GedcomDir); err != nil {
		a.log.Warn("local files not loaded", "dir", a.cfg.GedcomDir, "error", err)
	}
	name := fetcher.NameOf(file)
	if _, err := lib.LoadReader(name, bytes.NewReader(body)); err != nil {
		lib.Close()
		return nil, "", err
	}
	return lib, name, nil
}

// findPerson resolves a person by UUID or, failing that, by GEDCOM id
func findPerson(lib *library.Library, file, key string) (*loader.Loader, *domain.Person, error) {
	ld, err := lib.Loader(file)
	if err != nil {
		return nil, nil, err
	}
	if id, err := uuid.Parse(key); err == nil {
		p, err := lib.Person(file, id)
		return ld, p, err
	}
	if p := ld.Person(strings.Trim(key, "@")); p != nil {
		return ld, p, nil
	}
	return nil, nil, fmt.Errorf("%w: %s in %s", library.ErrPersonNotFound, key, file)
}

func filesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List the loaded GEDCOM files",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.loadLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer lib.Close()

			files, err := lib.Files()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range files {
				fmt.Fprintf(out, "%-24s %6d  %s\n", f.Name, f.People, truncate(f.Description, 60))
			}
			for name, err := range lib.Failures() {
				fmt.Fprintf(out, "%-24s failed: %v\n", name, err)
			}
			return nil
		},
	}
}

func peopleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "people [file]",
		Short: "List the people of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, name, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer lib.Close()

			people, err := lib.AllPeople(name)
			if err != nil {
				return err
			}

			if len(people) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No people in this file.")
				return nil
			}

			for _, p := range people {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-36s %s\n", p.ID, uuidString(p), display(p))
			}
			return nil
		},
	}
}

func personCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "person [file] [uuid|id]",
		Short: "Show a person with events, family and footnotes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, name, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer lib.Close()

			ld, p, err := findPerson(lib, name, args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			lin := ld.Lineage()
			fmt.Fprintf(out, "%s\n", display(p))
			if f := lin.Father(p); f != nil {
				fmt.Fprintf(out, "Father:  %s\n", display(f))
			}
			if m := lin.Mother(p); m != nil {
				fmt.Fprintf(out, "Mother:  %s\n", display(m))
			}

			if p.Private {
				fmt.Fprintln(out, "\n(events withheld: private)")
				return nil
			}

			notes := lib.FootnotesFor(p)
			if len(p.Events) > 0 {
				fmt.Fprintf(out, "\nEvents:\n")
				for _, e := range p.Events {
					fmt.Fprintf(out, "  %s\n", eventLine(e, notes))
				}
			}

			for _, pa := range p.Partnerships {
				fmt.Fprintf(out, "\nPartner: %s\n", displayOrUnknown(lin.Partner(pa)))
				if !lin.IsPrivate(pa) {
					for _, e := range pa.Events {
						fmt.Fprintf(out, "  %s\n", eventLine(e, notes))
					}
				}
				for _, c := range lin.Children(pa) {
					fmt.Fprintf(out, "  child: %s\n", display(c))
				}
			}

			if notes.Len() > 0 {
				fmt.Fprintf(out, "\nNotes:\n")
				for i, n := range notes.Notes() {
					fmt.Fprintf(out, "  [%d] %s\n", i+1, truncate(n, 100))
				}
			}
			return nil
		},
	}
}

func footnotesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "footnotes [file] [uuid|id]",
		Short: "Print the numbered footnotes of a person",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, name, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer lib.Close()

			_, p, err := findPerson(lib, name, args[1])
			if err != nil {
				return err
			}
			if p.Private {
				return nil
			}

			for i, n := range lib.FootnotesFor(p).Notes() {
				fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s\n", i+1, n)
			}
			return nil
		},
	}
}

func xrefCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "xref [file] [uuid]",
		Short: "List the other files holding the same person",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("parse uuid: %w", err)
			}

			lib, name, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer lib.Close()

			files, err := lib.Xrefs(name, id)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
}

func searchCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search people by name in all files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.loadLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer lib.Close()

			refs, err := lib.Search(strings.Join(args, " "), limit)
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching people found.")
				return nil
			}

			for _, r := range refs {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %-8s %s\n", r.File, r.PersonID, domain.PlainName(r.Name))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of people to show")
	return cmd
}

func treeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [path|url]",
		Short: "Print the line tree of a GEDCOM document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				tree *gedcom.Tree
				err  error
			)
			if fetcher.IsURL(args[0]) {
				var body []byte
				body, err = fetcher.New(a.cfg.FetchTimeout).Fetch(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				tree, err = gedcom.ReadTree(bytes.NewReader(body))
			} else {
				tree, err = gedcom.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			_, err = io.WriteString(cmd.OutOrStdout(), tree.Dump())
			return err
		},
	}
}

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			lib, err := a.loadLibrary(ctx)
			if err != nil {
				return err
			}

			server := api.New(lib, a.cfg.Addr, a.log)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return server.Run(ctx) })
			if a.cfg.Watch {
				g.Go(func() error {
					return lib.Watch(ctx, a.cfg.GedcomDir, library.WatchDebounce, func() {
						a.reload(ctx, server)
					})
				})
			}

			err = g.Wait()
			server.Swap(nil).Close()
			return err
		},
	}

	cmd.Flags().StringP("addr", "a", ":8080", "server address")
	cmd.Flags().Bool("watch", false, "reload when GEDCOM files change")
	_ = viper.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("watch", cmd.Flags().Lookup("watch"))
	return cmd
}

// reload replaces the served library with a freshly loaded one. The old
// library is closed once in-flight requests had time to finish.
func (a *app) reload(ctx context.Context, server *api.Server) {
	next, err := a.loadLibrary(ctx)
	if err != nil {
		a.log.Error("reload failed", "dir", a.cfg.GedcomDir, "error", err)
		return
	}
	prev := server.Swap(next)
	a.log.Info("library reloaded", "dir", a.cfg.GedcomDir)
	time.AfterFunc(reloadGrace, func() { prev.Close() })
}

func uuidString(p *domain.Person) string {
	if !p.HasUUID() {
		return ""
	}
	return p.UUID.String()
}

// display shows a person with vital dates unless the person is private
func display(p *domain.Person) string {
	if p.Private {
		return domain.PlainName(p.Name) + " (private)"
	}
	return p.String()
}

func displayOrUnknown(p *domain.Person) string {
	if p == nil {
		return domain.UnknownName
	}
	return display(p)
}

func eventLine(e *domain.Event, notes *domain.Footnotes) string {
	var sb strings.Builder
	if e.Date != nil {
		sb.WriteString(e.Date.String())
		sb.WriteString("  ")
	}
	sb.WriteString(e.Type)
	if e.Place != "" {
		sb.WriteString(", ")
		sb.WriteString(e.Place)
	}
	for _, s := range []string{e.Note, e.Citation()} {
		if n, ok := notes.Number(s); ok {
			fmt.Fprintf(&sb, " [%d]", n)
		}
	}
	if e.Source != nil {
		if name := e.Source.ShortName(); name != "" {
			sb.WriteString(", source: ")
			sb.WriteString(name)
		}
	}
	return sb.String()
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
