// Package testserver assembles the full workboard stack in memory and
// connects an MCP client to it.
package testserver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/workboard/internal/dashboard"
	"github.com/rpggio/workboard/internal/domain/activity"
	"github.com/rpggio/workboard/internal/domain/contract"
	"github.com/rpggio/workboard/internal/domain/employee"
	"github.com/rpggio/workboard/internal/domain/project"
	"github.com/rpggio/workboard/internal/mcp"
	"github.com/rpggio/workboard/internal/memory"
	"github.com/rpggio/workboard/internal/relation"
	"github.com/rpggio/workboard/internal/repository"
	"github.com/rpggio/workboard/internal/seed"
	"github.com/rpggio/workboard/internal/sqlite"
	"github.com/rpggio/workboard/internal/workspace"
	"github.com/stretchr/testify/require"
)

// TestServer is a connected stack. Docs is the shared document store.
type TestServer struct {
	Docs      repository.DocumentStore
	DB        *sqlite.DB
	Workspace *workspace.Workspace
	Server    *sdkmcp.Server
	Session   *sdkmcp.ClientSession
}

type options struct {
	sqliteDocs bool
	seed       bool
	allLabel   string
	now        time.Time
}

// Option configures New.
type Option func(*options)

// WithSQLiteDocuments stores documents in the SQLite database instead of
// process memory.
func WithSQLiteDocuments() Option {
	return func(o *options) { o.sqliteDocs = true }
}

// WithSeed loads the demo projects, employees and contracts.
func WithSeed() Option {
	return func(o *options) { o.seed = true }
}

// WithAllLabel sets the category that selects every record.
func WithAllLabel(label string) Option {
	return func(o *options) { o.allLabel = label }
}

// New builds the stack and registers cleanup on t.
func New(t *testing.T, opts ...Option) *TestServer {
	t.Helper()

	o := options{allLabel: "Tất cả", now: time.Now()}
	for _, opt := range opts {
		opt(&o)
	}
	ctx := context.Background()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	var docs interface {
		repository.DocumentStore
		seed.Seeder
		Close() error
	}
	if o.sqliteDocs {
		docs = sqlite.NewDocumentStore(db, nil)
	} else {
		docs = memory.New()
	}
	if o.seed {
		require.NoError(t, seed.Apply(ctx, docs, o.now))
	}

	ws, err := workspace.Open(ctx, docs, nil)
	require.NoError(t, err)

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	resolver := relation.NewResolver(docs)
	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:  project.NewService(docs, resolver, activitySvc, nil),
			Contracts: contract.NewService(docs, activitySvc, nil),
			Employees: employee.NewService(docs, activitySvc, nil),
			Activity:  activitySvc,
			Dashboard: dashboard.NewService(docs, nil),
			Workspace: ws,
		},
		AllLabel: o.allLabel,
	})

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "workboard-test", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
		ws.Close()
		_ = docs.Close()
		_ = db.Close()
	})

	return &TestServer{
		Docs:      docs,
		DB:        db,
		Workspace: ws,
		Server:    server,
		Session:   session,
	}
}

// Call invokes a tool and returns the raw result. Transport failures fail
// the test; tool errors are returned in the result.
func (ts *TestServer) Call(t *testing.T, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := ts.Session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	return res
}

// CallJSON invokes a tool, requires success and decodes its payload into out.
func (ts *TestServer) CallJSON(t *testing.T, name string, args map[string]any, out any) {
	t.Helper()
	res := ts.Call(t, name, args)
	require.False(t, res.IsError, "tool %s failed: %s", name, Text(res))
	require.NoError(t, json.Unmarshal([]byte(Text(res)), out))
}

// CallError invokes a tool, requires it to fail and returns the message.
func (ts *TestServer) CallError(t *testing.T, name string, args map[string]any) string {
	t.Helper()
	res := ts.Call(t, name, args)
	require.True(t, res.IsError, "tool %s unexpectedly succeeded: %s", name, Text(res))
	return Text(res)
}

// WaitForCount blocks until the shared store of collection holds n records.
func (ts *TestServer) WaitForCount(t *testing.T, collection string, n int) {
	t.Helper()
	store, err := ts.Workspace.Collection(collection)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return store.Len() == n }, 2*time.Second, 5*time.Millisecond)
}

// Text returns the concatenated text content of a result.
func Text(res *sdkmcp.CallToolResult) string {
	var out string
	for _, content := range res.Content {
		if text, ok := content.(*sdkmcp.TextContent); ok {
			out += text.Text
		}
	}
	return out
}
