package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/heimdex/msve-edl/internal/api"
	"github.com/heimdex/msve-edl/internal/config"
	"github.com/heimdex/msve-edl/internal/db"
	"github.com/heimdex/msve-edl/internal/export"
	"github.com/heimdex/msve-edl/internal/logging"
	"github.com/heimdex/msve-edl/internal/photos"
	"github.com/heimdex/msve-edl/internal/watcher"
)

var errUsage = errors.New("usage error")

type app struct {
	cfg    config.Config
	logger *slog.Logger
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func newApp(cfg config.Config, logger *slog.Logger, in io.Reader, out, errOut io.Writer) *app {
	return &app{cfg: cfg, logger: logger, in: bufio.NewReader(in), out: out, errOut: errOut}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 || isHelp(args[0]) {
		a.printUsage()
		return nil
	}

	var err error
	switch args[0] {
	case "list":
		err = a.listCmd(ctx, args[1:])
	case "export":
		err = a.exportCmd(ctx, args[1:])
	case "serve":
		err = a.serveCmd(ctx, args[1:])
	case "version":
		fmt.Fprintf(a.out, "msve-edl %s (commit %s, built %s)\n", config.Version, config.GitCommit, config.BuildTime)
	default:
		a.printUsage()
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func (a *app) printUsage() {
	fmt.Fprint(a.errOut, `Usage: msve-edl <command> [flags]

Exports Photos video editor projects as cuts-only EDL files.

Commands:
  list      list projects in the Photos database
  export    convert one project to EDL or CSV
  serve     run the local HTTP API
  version   print version information

Run "msve-edl <command> -h" for command flags.
`)
}

func isHelp(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// openStore opens the Photos database read-only.
func (a *app) openStore(dbPath string, opts ...photos.Option) (*db.DB, *photos.Service, error) {
	if dbPath == "" {
		return nil, nil, fmt.Errorf("%w: no database path, set %s or pass -db", errUsage, config.EnvDBPath)
	}

	database, err := db.Open(dbPath, logging.WithComponent(a.logger, "db"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", logging.SanitizePath(dbPath), err)
	}

	repo := photos.NewRepository(database.Conn())
	return database, photos.NewService(repo, logging.WithComponent(a.logger, "photos"), opts...), nil
}

func (a *app) listCmd(ctx context.Context, args []string) error {
	fs := a.newFlagSet("list")
	dbPath := fs.String("db", a.cfg.DBPath(), "path to the Photos media database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	database, svc, err := a.openStore(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	names, err := svc.ListProjects(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(a.out, name)
	}
	return nil
}

func (a *app) exportCmd(ctx context.Context, args []string) error {
	fs := a.newFlagSet("export")
	dbPath := fs.String("db", a.cfg.DBPath(), "path to the Photos media database")
	project := fs.String("project", "", "project to export (prompts when empty)")
	output := fs.String("o", "", "output file, - for stdout (prompts when empty)")
	formatFlag := fs.String("format", a.cfg.Format(), "output format: edl or csv")
	frameRate := fs.Int("frame-rate", a.cfg.FrameRate(), "frames per second")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *project == "" && fs.NArg() > 0 {
		*project = fs.Arg(0)
	}

	format, err := export.ParseFormat(*formatFlag)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *frameRate <= 0 {
		return fmt.Errorf("%w: frame rate must be positive", errUsage)
	}

	database, svc, err := a.openStore(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	name := *project
	if name == "" {
		names, err := svc.ListProjects(ctx)
		if err != nil {
			return err
		}
		if name, err = a.selectProject(names); err != nil {
			return err
		}
	}

	target := *output
	if target == "" {
		def := filepath.Join(a.cfg.OutputDir(), "output."+format)
		if target, err = a.selectLocation(def); err != nil {
			return err
		}
	}

	logger := logging.WithProject(a.logger, name)

	p, err := svc.GetProject(ctx, name)
	if err != nil {
		return err
	}

	doc, err := export.Render(format, p, *frameRate)
	if err != nil {
		return err
	}

	if target == "-" {
		_, err := io.WriteString(a.out, doc)
		return err
	}

	if err := export.WriteFile(target, doc); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}

	logger.Info("project exported", "format", format, "path", logging.SanitizePath(target), "events", len(p.Entries))
	return nil
}

// selectProject shows a numbered menu until a valid choice is read.
func (a *app) selectProject(names []string) (string, error) {
	if len(names) == 0 {
		return "", errors.New("no projects found in database")
	}

	for {
		fmt.Fprintln(a.out, "Select which project to convert:")
		for i, name := range names {
			fmt.Fprintf(a.out, "\t[%d]: %s\n", i+1, name)
		}
		fmt.Fprint(a.out, ">> ")

		line, err := a.in.ReadString('\n')
		if n, convErr := strconv.Atoi(strings.TrimSpace(line)); convErr == nil && n >= 1 && n <= len(names) {
			return names[n-1], nil
		}
		if err != nil {
			return "", fmt.Errorf("no project selected: %w", err)
		}
	}
}

func (a *app) selectLocation(def string) (string, error) {
	fmt.Fprintf(a.out, "Where to save the output (default is %s): ", def)

	line, err := a.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read output location: %w", err)
	}
	if loc := strings.TrimSpace(line); loc != "" {
		return loc, nil
	}
	return def, nil
}

func (a *app) serveCmd(ctx context.Context, args []string) error {
	fs := a.newFlagSet("serve")
	dbPath := fs.String("db", a.cfg.DBPath(), "path to the Photos media database")
	port := fs.Int("port", a.cfg.Port(), "HTTP port on 127.0.0.1")
	if err := fs.Parse(args); err != nil {
		return err
	}

	database, svc, err := a.openStore(*dbPath, photos.WithCacheTTL(a.cfg.CacheTTL()))
	if err != nil {
		return err
	}
	defer database.Close()

	server := api.NewServer(api.ServerConfig{
		Port:      *port,
		Store:     svc,
		FrameRate: a.cfg.FrameRate(),
		Format:    a.cfg.Format(),
		AuthToken: a.cfg.AuthToken(),
		Logger:    logging.WithComponent(a.logger, "api"),
		StartTime: time.Now(),
		Version:   config.Version,
	})

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()

	if a.cfg.CacheTTL() > 0 {
		// The Photos app may rewrite projects while we serve them. The
		// snapshot is taken before the first request can fill the cache.
		w := watcher.NewPollWatcher(logging.WithComponent(a.logger, "watcher"), watcher.DefaultInterval)
		w.OnChange(func(path string, event watcher.EventType) {
			svc.Purge()
		})
		if err := w.Start(watchCtx, *dbPath, *dbPath+"-wal"); err != nil {
			return fmt.Errorf("failed to watch database: %w", err)
		}
	}

	if err := server.Listen(); err != nil {
		return err
	}
	fmt.Fprintf(a.errOut, "serving projects on http://%s\n", server.Addr())

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.logger.Info("initiating graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	a.logger.Info("shutdown complete")
	return nil
}
