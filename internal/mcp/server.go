package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/workboard/internal/dashboard"
	"github.com/rpggio/workboard/internal/domain/activity"
	"github.com/rpggio/workboard/internal/domain/contract"
	"github.com/rpggio/workboard/internal/domain/employee"
	"github.com/rpggio/workboard/internal/domain/project"
	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/rpggio/workboard/internal/recordstore"
	"github.com/rpggio/workboard/internal/relation"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	Update(ctx context.Context, id string, req project.UpdateRequest) (*project.Project, error)
	Delete(ctx context.Context, id string) error
	Members(ctx context.Context, id string) ([]relation.Member, error)
}

// ContractService defines contract operations needed by MCP.
type ContractService interface {
	Create(ctx context.Context, req contract.CreateRequest) (*contract.Contract, error)
	Get(ctx context.Context, id string) (*contract.Contract, error)
	Update(ctx context.Context, id string, req contract.UpdateRequest) (*contract.Contract, error)
	Delete(ctx context.Context, id string) error
}

// EmployeeService defines employee operations needed by MCP.
type EmployeeService interface {
	Create(ctx context.Context, req employee.CreateRequest) (*employee.Employee, error)
	Get(ctx context.Context, id string) (*employee.Employee, error)
	Update(ctx context.Context, id string, req employee.UpdateRequest) (*employee.Employee, error)
	Delete(ctx context.Context, id string) error
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// DashboardService builds the cross-collection overview.
type DashboardService interface {
	Overview(ctx context.Context) (dashboard.Overview, error)
}

// Workspace exposes the session's shared record stores.
type Workspace interface {
	Collection(name string) (*recordstore.Store, error)
	Employees() *recordstore.Store
	Refresh(ctx context.Context, name string) error
	Confirm(rec record.Record)
	ConfirmDelete(kind record.Kind, id string)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects  ProjectService
	Contracts ContractService
	Employees EmployeeService
	Activity  ActivityService
	Dashboard DashboardService
	Workspace Workspace
}

// Config contains server configuration.
type Config struct {
	Services Services
	// AllLabel is the category that selects every record. Empty means "All".
	AllLabel string
	Version  string
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "workboard",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(metricsMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &tools{services: cfg.Services, allLabel: cfg.AllLabel})

	return server
}
