package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/kbconsole/internal/client/client"
	"github.com/dmitrijs2005/kbconsole/internal/client/config"
	"github.com/dmitrijs2005/kbconsole/internal/client/models"
	"github.com/dmitrijs2005/kbconsole/internal/client/services"
	"github.com/dmitrijs2005/kbconsole/internal/client/session"
	"github.com/dmitrijs2005/kbconsole/internal/logging"
)

// App is the interactive console: configuration, the session store, the API
// services and the little state the REPL keeps between commands.
type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB
	store  session.Store

	authService services.AuthService
	kbService   services.KnowledgeBaseService
	fileService services.FileService
	chatService services.ChatService
	userService services.UserService

	reader *bufio.Reader
	out    io.Writer

	mu          sync.Mutex
	userName    string
	role        string
	loggedIn    bool
	currentKB   models.ID
	currentChat models.ID
}

// NewApp opens the session database named in c and connects the services to
// the API at c.BaseURL. Close the App when done.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := session.OpenDatabase(ctx, c.SessionDB)
	if err != nil {
		log.Error(ctx, "error initializing session database", "path", c.SessionDB, "error", err)
		return nil, err
	}

	app := newApp(c, session.NewSQLiteStore(db), log, os.Stdin, os.Stdout)
	app.db = db

	if err := app.connect(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(c *config.Config, store session.Store, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		log:    log,
		store:  store,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// connect builds the API client and the services on top of it. The client
// reports forced logouts back to the App so the prompt drops to guest mode.
func (a *App) connect(opts ...client.Option) error {
	base := []client.Option{
		client.WithTimeout(a.config.RequestTimeout),
		client.WithLogger(a.log),
		client.WithLogoutHandler(a.onLogout),
	}
	api, err := client.NewHTTPClient(a.config.BaseURL, a.store, append(base, opts...)...)
	if err != nil {
		return fmt.Errorf("api client: %w", err)
	}

	a.authService = services.NewAuthService(api, a.store, a.log)
	a.kbService = services.NewKnowledgeBaseService(api, a.log)
	a.fileService = services.NewFileService(api, a.log)
	a.chatService = services.NewChatService(api, a.log)
	a.userService = services.NewUserService(api, a.log)
	return nil
}

// Run restores a saved session, if any, and blocks in the REPL until the
// user exits or input ends.
func (a *App) Run(ctx context.Context) {
	if err := a.restore(ctx); err != nil {
		a.log.Warn(ctx, "could not restore session", "error", err)
	}
	runREPL(ctx, a, a.status, a.reader)
}

// Close releases the session database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) restore(ctx context.Context) error {
	sess, err := a.authService.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if sess.HasToken() {
		a.setSession(sess)
		a.log.Info(ctx, "session restored", "username", sess.Username)
	}
	return nil
}

func (a *App) setSession(s session.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = s.Username
	a.role = s.Role
	a.loggedIn = true
}

func (a *App) resetState() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = ""
	a.role = ""
	a.loggedIn = false
	a.currentKB = ""
	a.currentChat = ""
}

// onLogout is called by the authenticator when the session ended underneath
// a request. The failed request itself reports the reason to the user.
func (a *App) onLogout(ctx context.Context, reason error) {
	a.log.Info(ctx, "session ended", "reason", reason)
	a.resetState()
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loggedIn
}

func (a *App) status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.loggedIn {
		return "guest"
	}
	return fmt.Sprintf("(%s %s)", a.userName, a.role)
}

func (a *App) selectedKB() (models.ID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.currentKB == "" {
		return "", errNoKnowledgeBase
	}
	return a.currentKB, nil
}

func (a *App) selectedChat() (models.ID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.currentChat == "" {
		return "", errNoChat
	}
	return a.currentChat, nil
}

var (
	errNoKnowledgeBase = errors.New("no knowledge base selected, run 'use <id>' first")
	errNoChat          = errors.New("no chat open, run 'newchat' or 'open <id>' first")
	errCancelled       = errors.New("cancelled")
)

// UsageError reports a malformed command line.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Usage
}

func usage(s string) error {
	return &UsageError{Usage: s}
}

// argOrPrompt returns the joined args, or asks for the value when none were given.
func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	return getSimpleText(a.reader, prompt, a.out)
}

// promptDefault asks for a value, keeping def when the answer is empty.
func (a *App) promptDefault(prompt, def string) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, def)
	}
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}

// confirm asks a yes/no question; anything but y or yes is a no.
func (a *App) confirm(question string) error {
	answer, err := getSimpleText(a.reader, question+" (y/N)", a.out)
	if err != nil {
		return err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return nil
	}
	return errCancelled
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
