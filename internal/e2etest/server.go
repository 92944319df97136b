package e2etest

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/myrjola/trainplan/internal/logging"

	_ "github.com/mattn/go-sqlite3"
)

// Server is an in-process instance of the application under test.
type Server struct {
	url        string
	client     *Client
	db         *sql.DB
	cancel     context.CancelCauseFunc
	serverDone chan struct{}
}

const (
	// LogAddrKey is the key the server logs its listen address under.
	LogAddrKey = "addr"
	// LogDsnKey is the key the database logs its read-write DSN under.
	LogDsnKey = "sqlDsn"
)

// startupAttrs records the first value logged for each of the watched keys.
type startupAttrs struct {
	mu     sync.Mutex
	values map[string]string
	ready  chan struct{}
}

func newStartupAttrs(keys ...string) *startupAttrs {
	values := make(map[string]string, len(keys))
	for _, k := range keys {
		values[k] = ""
	}
	return &startupAttrs{mu: sync.Mutex{}, values: values, ready: make(chan struct{})}
}

func (s *startupAttrs) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, watched := s.values[a.Key]
	if !watched || v != "" {
		return a
	}
	s.values[a.Key] = a.Value.String()
	for _, v = range s.values {
		if v == "" {
			return a
		}
	}
	close(s.ready)
	return a
}

func (s *startupAttrs) get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// StartServer runs the application in a goroutine and waits until it reports healthy.
//
// logSink receives the server logs, usually testhelpers.NewWriter. lookupEnv replaces [os.LookupEnv].
// run must log the listen address under LogAddrKey and the read-write database DSN under LogDsnKey.
// The server is shut down when the test finishes.
func StartServer(
	t *testing.T,
	logSink io.Writer,
	lookupEnv func(string) (string, bool),
	run func(context.Context, *slog.Logger, func(string) (string, bool)) error,
) (*Server, error) {
	var server *Server
	t.Cleanup(func() {
		if server != nil {
			server.Shutdown()
		}
	})
	ctx, cancel := context.WithCancelCause(t.Context())
	serverDone := make(chan struct{})

	attrs := newStartupAttrs(LogAddrKey, LogDsnKey)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: attrs.replaceAttr,
	})))

	go func() {
		defer close(serverDone)
		if err := run(ctx, logger, lookupEnv); err != nil {
			cancel(err)
		}
	}()
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("server stopped before startup: %w", context.Cause(ctx))
	case <-attrs.ready:
	}

	serverURL := "http://" + attrs.get(LogAddrKey)
	client := NewClient(serverURL)
	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		cancel(nil)
		<-serverDone
		return nil, fmt.Errorf("wait for ready: %w", err)
	}
	db, err := sql.Open("sqlite3", attrs.get(LogDsnKey))
	if err != nil {
		cancel(nil)
		<-serverDone
		return nil, fmt.Errorf("open database: %w", err)
	}

	server = &Server{
		url:        serverURL,
		client:     client,
		db:         db,
		cancel:     cancel,
		serverDone: serverDone,
	}
	return server, nil
}

// Client returns a client for the server without any extra headers.
func (s *Server) Client() *Client {
	return s.client
}

// URL is the base URL of the server.
func (s *Server) URL() string {
	return s.url
}

// DB is a connection to the server's database for assertions on stored rows.
func (s *Server) DB() *sql.DB {
	return s.db
}

// Shutdown stops the server and waits for run to return.
func (s *Server) Shutdown() {
	_ = s.db.Close()
	s.cancel(nil)
	<-s.serverDone
}
