// Package fakeapi is an in-memory stand-in for the knowledge-base platform
// backend. It serves the same routes and answer shapes over httptest and is
// used by the client, services and cli tests.
package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/kbconsole/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DefaultCode is the one-time code every mail-code endpoint "sends".
const DefaultCode = "123456"

// Account is a registered user of the fake backend.
type Account struct {
	models.User
	Password string
	Verified bool
}

// Request is one request seen by the server.
type Request struct {
	Method        string
	Path          string
	Authorization string
}

// Server is the fake backend. The zero value is not usable; call New.
type Server struct {
	// ExpiresIn is sent with every issued token pair; zero omits it.
	ExpiresIn int64
	// FailRefresh makes /auth/refresh answer 401.
	FailRefresh atomic.Bool
	// OmitRefreshAccess makes /auth/refresh succeed without an access token.
	OmitRefreshAccess atomic.Bool

	RefreshCalls atomic.Int32

	mu        sync.Mutex
	secret    []byte
	accounts  map[string]*Account // by email
	access    map[string]string   // access token -> email
	refresh   map[string]string   // refresh token -> email
	codes     map[string]string   // email -> pending code
	kbs       []models.KnowledgeBase
	files     []models.File
	contents  map[models.ID][]byte
	assistant []models.Assistant
	convs     []models.Conversation
	requests  []Request

	e   *echo.Echo
	srv *httptest.Server
}

// New starts a fake backend on a local port. Close it when done.
func New() *Server {
	s := &Server{
		ExpiresIn: 3600,
		secret:    []byte(uuid.NewString()),
		accounts:  map[string]*Account{},
		access:    map[string]string{},
		refresh:   map[string]string{},
		codes:     map[string]string{},
		contents:  map[models.ID][]byte{},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.record)
	s.routes(e)

	s.e = e
	s.srv = httptest.NewServer(e)
	return s
}

func (s *Server) URL() string {
	return s.srv.URL
}

func (s *Server) Close() {
	s.srv.Close()
}

// AddAccount registers a user and returns it with its assigned id.
func (s *Server) AddAccount(email, username, password, role string, verified bool) Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := &Account{
		User: models.User{
			ID:        models.ID(uuid.NewString()),
			FullName:  username,
			Username:  username,
			Email:     email,
			Role:      role,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		},
		Password: password,
		Verified: verified,
	}
	s.accounts[email] = a
	return *a
}

// Account returns the account registered under email.
func (s *Server) Account(email string) (Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[email]
	if !ok {
		return Account{}, false
	}
	return *a, true
}

// AddKnowledgeBase seeds a knowledge base.
func (s *Server) AddKnowledgeBase(name string, docs int) models.KnowledgeBase {
	s.mu.Lock()
	defer s.mu.Unlock()
	kb := models.KnowledgeBase{ID: models.ID(uuid.NewString()), Title: name, Docs: docs, UpdatedAt: time.Now().UTC()}
	s.kbs = append(s.kbs, kb)
	return kb
}

// AddFile seeds a file with content into a knowledge base.
func (s *Server) AddFile(kb models.ID, name string, content []byte) models.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addFileLocked(kb, name, content)
}

func (s *Server) addFileLocked(kb models.ID, name string, content []byte) models.File {
	f := models.File{
		ID:              models.ID(uuid.NewString()),
		Name:            name,
		Size:            int64(len(content)),
		UploadedAt:      time.Now().UTC(),
		KnowledgeBaseID: kb,
	}
	s.files = append(s.files, f)
	s.contents[f.ID] = content
	return f
}

// IssueTokens creates a token pair for email as a login would.
func (s *Server) IssueTokens(email string) (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(email)
}

// RevokeAccess makes the server reject access token.
func (s *Server) RevokeAccess(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.access, token)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the requests whose path equals path.
func (s *Server) RequestsTo(path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) issueLocked(email string) (string, string) {
	a := s.accounts[email]
	claims := jwt.MapClaims{
		"sub": email,
		"jti": uuid.NewString(),
		"iat": time.Now().Unix(),
	}
	if a != nil {
		claims["username"] = a.Username
		claims["role"] = a.Role
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	refresh := uuid.NewString()

	s.access[access] = email
	s.refresh[refresh] = email
	return access, refresh
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
		})
		s.mu.Unlock()
		return next(c)
	}
}

// requireToken rejects requests without a live bearer token.
func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Request().Header.Get("Authorization")
		const prefix = "Bearer "
		if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
			return fail(c, http.StatusUnauthorized, "missing access token")
		}
		token := h[len(prefix):]

		if _, err := jwt.Parse(token, func(*jwt.Token) (any, error) { return s.secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})); err != nil {
			return fail(c, http.StatusUnauthorized, "invalid or expired token")
		}

		s.mu.Lock()
		email, ok := s.access[token]
		s.mu.Unlock()
		if !ok {
			return fail(c, http.StatusUnauthorized, "invalid or expired token")
		}
		c.Set("email", email)
		c.Set("token", token)
		return next(c)
	}
}

type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func ok(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, envelope{Status: http.StatusOK, Message: message, Data: data})
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, envelope{Status: code, Message: message})
}

func invalid(c echo.Context, errs []models.FieldError) error {
	return c.JSON(http.StatusBadRequest, envelope{Status: http.StatusBadRequest, Message: "Validation failed", Data: errs})
}
