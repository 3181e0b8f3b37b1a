// Command gamelog is the CLI frontend for the game collection tracker: account
// management, collection edits, and the Steam import job.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/gamelog-dev/gamelog/internal/config"
	"github.com/gamelog-dev/gamelog/internal/errs"
	"github.com/gamelog-dev/gamelog/internal/migrate"
	"github.com/gamelog-dev/gamelog/internal/repository"
	"github.com/gamelog-dev/gamelog/internal/repository/postgres"
	"github.com/gamelog-dev/gamelog/internal/service"
	"github.com/gamelog-dev/gamelog/internal/session"
	"github.com/gamelog-dev/gamelog/internal/steam"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: gamelog <command> [flags]

commands:
  signup      create an account
  login       authenticate and store a session token
  logout      discard the stored session token
  whoami      print the user id of the stored session
  add         add a game to your collection
  edit        change play state/platform of a collection entry
  list        print your collection
  link-steam  store your Steam account id
  sync        import your Steam library`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("command", os.Args[1]),
	)

	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres pool", zap.Error(err))
	}
	defer db.Close()

	app, err := newApp(cfg, db, logger)
	if err != nil {
		logger.Fatal("wiring", zap.Error(err))
	}

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	users      repository.UserRepository
	sessions   *session.Manager
	auth       service.AuthService
	collection service.CollectionService
	sync       service.SyncService
}

func newApp(cfg *config.Config, db *postgres.DB, logger *zap.Logger) (*app, error) {
	sessions, err := session.New(cfg.SessionKey, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	userRepo := postgres.NewUserRepo(db)
	gameRepo := postgres.NewGameRepo(db)
	userGameRepo := postgres.NewUserGameRepo(db)

	catalog := service.NewCatalogService(gameRepo)
	collection := service.NewCollectionService(userGameRepo, catalog, cfg.Platforms)
	fetcher := steam.NewClient(cfg.SteamAPIKey, cfg.SteamTimeout)

	return &app{
		users:      userRepo,
		sessions:   sessions,
		auth:       service.NewAuthService(userRepo, logger),
		collection: collection,
		sync:       service.NewSyncService(fetcher, catalog, collection, logger),
	}, nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "signup":
		return a.cmdSignup(ctx, args)
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return clearToken()
	case "whoami":
		return a.cmdWhoami(args)
	case "add":
		return a.cmdAdd(ctx, args)
	case "edit":
		return a.cmdEdit(ctx, args)
	case "list":
		return a.cmdList(ctx, args)
	case "link-steam":
		return a.cmdLinkSteam(ctx, args)
	case "sync":
		return a.cmdSync(ctx, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// ---- token store ----

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "gamelog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gamelog")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token") }

func saveToken(tok string) error {
	if err := os.MkdirAll(cfgDir(), 0o700); err != nil {
		return err
	}
	return os.WriteFile(tokenPath(), []byte(tok), 0o600)
}

// clearToken discards the stored token; this is the whole of logout since
// tokens carry no server-side state.
func clearToken() error {
	err := os.Remove(tokenPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// currentUser validates the stored token and returns the caller's user id.
func (a *app) currentUser() (int64, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return 0, errors.New("not logged in (run: gamelog login)")
	}
	id, err := a.sessions.Validate(string(b))
	if err != nil {
		_ = clearToken()
		return 0, errors.New("session expired or invalid (run: gamelog login)")
	}
	return id, nil
}

// ---- commands ----

func (a *app) cmdSignup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	username := fs.String("username", "", "unique username")
	email := fs.String("email", "", "unique email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	id, err := a.auth.Signup(ctx, *username, *email, *password)
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return errors.New("username or email already taken")
		}
		return err
	}
	fmt.Printf("user %d created\n", id)
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	identifier := fs.String("user", "", "username or email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	id, err := a.auth.Login(ctx, *identifier, *password)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			return errors.New("invalid credentials")
		}
		return err
	}
	tok, err := a.sessions.Issue(id)
	if err != nil {
		return err
	}
	if err := saveToken(tok); err != nil {
		return err
	}
	fmt.Printf("logged in as user %d\n", id)
	return nil
}

func (a *app) cmdWhoami(args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := a.currentUser()
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "game title")
	state := fs.String("state", "unplayed", "play state")
	platform := fs.String("platform", "", "platform")
	_ = fs.Parse(args)

	callerID, err := a.currentUser()
	if err != nil {
		return err
	}
	if err := a.collection.Add(ctx, callerID, *name, *state, *platform); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return fmt.Errorf("%q is already in your collection", *name)
		}
		return err
	}
	fmt.Printf("added %q\n", *name)
	return nil
}

func (a *app) cmdEdit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.Int64("id", 0, "collection entry id")
	state := fs.String("state", "", "play state")
	platform := fs.String("platform", "", "platform")
	_ = fs.Parse(args)

	callerID, err := a.currentUser()
	if err != nil {
		return err
	}
	if err := a.collection.Edit(ctx, *id, callerID, *state, *platform); err != nil {
		if errors.Is(err, errs.ErrForbidden) {
			return errors.New("that entry belongs to another user")
		}
		return err
	}
	fmt.Printf("entry %d updated\n", *id)
	return nil
}

func (a *app) cmdList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	userID := fs.Int64("user", 0, "user id (default: yourself)")
	_ = fs.Parse(args)

	id := *userID
	if id == 0 {
		var err error
		if id, err = a.currentUser(); err != nil {
			return err
		}
	}

	entries, err := a.collection.List(ctx, id)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGAME\tSTATE\tPLATFORM")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.UserGame.ID, e.GameName, e.UserGame.PlayState, e.UserGame.Platform)
	}
	return w.Flush()
}

func (a *app) cmdLinkSteam(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("link-steam", flag.ExitOnError)
	steamID := fs.String("steam-id", "", "Steam account id (64-bit id as string)")
	_ = fs.Parse(args)

	callerID, err := a.currentUser()
	if err != nil {
		return err
	}
	if err := a.auth.LinkSteamID(ctx, callerID, *steamID); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return errors.New("that Steam account is linked to another user")
		}
		return err
	}
	fmt.Println("steam account linked")
	return nil
}

func (a *app) cmdSync(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	steamID := fs.String("steam-id", "", "Steam account id (default: your linked account)")
	_ = fs.Parse(args)

	callerID, err := a.currentUser()
	if err != nil {
		return err
	}

	sid := *steamID
	if sid == "" {
		u, err := a.users.GetByID(ctx, callerID)
		if err != nil {
			return err
		}
		if u.SteamID == "" {
			return errors.New("no Steam account linked (run: gamelog link-steam)")
		}
		sid = u.SteamID
	}

	if err := a.sync.Sync(ctx, callerID, sid); err != nil {
		return fmt.Errorf("sync finished with errors: %w", err)
	}
	fmt.Println("sync complete")
	return nil
}
