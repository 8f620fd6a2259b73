// Command solx is a terminal client for the Sol-X API. It keeps the session
// on disk between runs and answers route and menu questions for the
// signed-in role.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/solx/solx-api/internal/client/session"
	"github.com/solx/solx-api/pkg/logger"
)

const usage = `usage: solx [flags] <command> [args]

commands:
  login <email>      sign in (password from SOLX_PASSWORD or stdin)
  logout             forget the stored session
  whoami             print the stored user
  verify             check the stored token against the server
  profile            fetch the profile from the server
  set-name <name>    change the display name
  nav                list menu entries for the stored role
  can <path>         show how the dashboard would route <path>

flags:
`

type app struct {
	client *session.Client
	store  *session.Store
	out    io.Writer
	in     io.Reader
	log    zerolog.Logger
}

func main() {
	defaultURL := os.Getenv("SOLX_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8000"
	}

	apiURL := flag.String("api", defaultURL, "Sol-X API base URL")
	sessionPath := flag.String("session", "", "session file (default <config dir>/solx/session.json)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log := logger.Init(logger.Options{Level: level, Pretty: true, Output: os.Stderr})

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	path := *sessionPath
	if path == "" {
		p, err := session.DefaultPath()
		if err != nil {
			log.Fatal().Err(err).Msg("cannot locate session file")
		}
		path = p
	}

	client := session.NewClient(*apiURL)
	store := session.New(client, session.NewFilePersister(path))
	if err := store.Load(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("stored session unreadable, starting signed out")
	}

	a := &app{client: client, store: store, out: os.Stdout, in: os.Stdin, log: log}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		var apiErr *session.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintf(os.Stderr, "error: %s\n", apiErr.Message)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		if len(args) != 1 {
			return errors.New("usage: login <email>")
		}
		return a.login(ctx, args[0])
	case "logout":
		if err := a.store.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "signed out")
		return nil
	case "whoami":
		return a.whoami()
	case "verify":
		return a.verify(ctx)
	case "profile":
		return a.profile(ctx)
	case "set-name":
		if len(args) == 0 {
			return errors.New("usage: set-name <name>")
		}
		return a.setName(ctx, strings.Join(args, " "))
	case "nav":
		return a.nav()
	case "can":
		if len(args) != 1 {
			return errors.New("usage: can <path>")
		}
		fmt.Fprintln(a.out, session.Decide(a.store.Snapshot(), args[0]))
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) login(ctx context.Context, email string) error {
	password := os.Getenv("SOLX_PASSWORD")
	if password == "" {
		fmt.Fprint(a.out, "password: ")
		line, err := bufio.NewReader(a.in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	if err := a.store.Login(ctx, email, password); err != nil {
		return err
	}
	u := a.store.Snapshot().User
	a.log.Debug().Str("user_id", u.ID).Msg("session stored")
	fmt.Fprintf(a.out, "signed in as %s (%s)\n", u.Name, u.Role)
	return nil
}

func (a *app) whoami() error {
	st := a.store.Snapshot()
	if !st.Valid() {
		fmt.Fprintln(a.out, "not signed in")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> %s id=%s\n", st.User.Name, st.User.Email, st.User.Role, st.User.ID)
	return nil
}

func (a *app) verify(ctx context.Context) error {
	st := a.store.Snapshot()
	if !st.Valid() {
		return session.ErrNoSession
	}
	v, err := a.client.Verify(ctx, st.Token)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "token valid for %s (%s)\n", v.Email, v.Role)
	return nil
}

func (a *app) profile(ctx context.Context) error {
	st := a.store.Snapshot()
	if !st.Valid() {
		return session.ErrNoSession
	}
	u, err := a.client.Profile(ctx, st.Token)
	if err != nil {
		return err
	}
	if err := a.store.UpdateUser(u); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> %s\n", u.Name, u.Email, u.Role)
	return nil
}

func (a *app) setName(ctx context.Context, name string) error {
	st := a.store.Snapshot()
	if !st.Valid() {
		return session.ErrNoSession
	}
	u, err := a.client.UpdateProfile(ctx, st.Token, name)
	if err != nil {
		return err
	}
	if err := a.store.UpdateUser(u); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "name changed to %s\n", u.Name)
	return nil
}

func (a *app) nav() error {
	st := a.store.Snapshot()
	if !st.Valid() {
		return session.ErrNoSession
	}
	for _, item := range session.Navigation(st.User.Role) {
		fmt.Fprintf(a.out, "%-16s %s\n", item.Label, item.Path)
	}
	return nil
}
