package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/watertrack/internal/domain/activity"
	"github.com/rpggio/watertrack/internal/domain/intake"
	"github.com/rpggio/watertrack/internal/domain/profile"
	"github.com/rpggio/watertrack/internal/snapshot"
)

// ProfileService defines profile operations needed by MCP.
type ProfileService interface {
	Get(ctx context.Context) (*profile.Profile, error)
	Save(ctx context.Context, req profile.SaveRequest) (*profile.Profile, error)
}

// IntakeService defines intake operations needed by MCP.
type IntakeService interface {
	Add(ctx context.Context, req intake.AddRequest) (*intake.Record, error)
	Update(ctx context.Context, req intake.UpdateRequest) (*intake.Record, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts intake.ListOptions) ([]intake.Record, error)
	ListRecent(ctx context.Context, days int) ([]intake.Record, error)
	ListRange(ctx context.Context, startDate, endDate time.Time) ([]intake.Record, error)
	Status(ctx context.Context) (*intake.DailyStatus, error)
}

// StateService defines whole-state operations needed by MCP.
type StateService interface {
	Export(ctx context.Context, path string) error
	Import(ctx context.Context, path string) (snapshot.State, error)
	Reset(ctx context.Context) error
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Profiles ProfileService
	Intake   IntakeService
	State    StateService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
	// Location interprets calendar dates given to list_intake. Defaults to time.Local.
	Location *time.Location
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "watertrack",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	t := &tools{services: cfg.Services, logger: cfg.Logger, loc: loc}
	t.register(server)

	return server
}
