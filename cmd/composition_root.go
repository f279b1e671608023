package cmd

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/in/ws"
	"dispatch/internal/adapters/out/auth"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/staffrepo"
	"dispatch/internal/adapters/out/rediscache"
	"dispatch/internal/core/application/events"
	"dispatch/internal/core/application/queuecache"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/notifier"
)

// CompositionRoot wires the application object graph. Command handlers get
// fresh units of work per call; the queue, hub, and router are shared
// singletons that main starts and stops around the web server's lifetime.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	staffRepo ports.StaffRepository
	queue     *queuecache.Queue
	hub       *notifier.Hub
	router    *events.Router

	escalationThreshold time.Duration
	logger              *slog.Logger
}

func NewCompositionRoot(
	gormDB *gorm.DB,
	redisClient *redis.Client,
	escalationThreshold time.Duration,
	heartbeatInterval time.Duration,
	sessionTimeout time.Duration,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	cacheStore, err := rediscache.NewRedisCacheStore(redisClient)
	if err != nil {
		return nil, err
	}

	queue, err := queuecache.NewQueue(cacheStore, logger)
	if err != nil {
		return nil, err
	}

	staffRepo := staffrepo.NewGormStaffRepository(gormDB, readOnlyTracker{})

	validator, err := auth.NewDeviceCredentialValidator(staffRepo)
	if err != nil {
		return nil, err
	}

	hub, err := notifier.NewHub(validator, heartbeatInterval, sessionTimeout, logger)
	if err != nil {
		return nil, err
	}

	router, err := events.NewRouter(queue, hub, cacheStore, logger)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		gormDB:              gormDB,
		uowFactory:          *postgres.NewGormUnitOfWorkFactory(gormDB),
		staffRepo:           staffRepo,
		queue:               queue,
		hub:                 hub,
		router:              router,
		escalationThreshold: escalationThreshold,
		logger:              logger,
	}, nil
}

// Hub returns the shared notification hub.
func (c *CompositionRoot) Hub() *notifier.Hub {
	return c.hub
}

// Router returns the shared event router.
func (c *CompositionRoot) Router() *events.Router {
	return c.router
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.router)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.OrderAssignmentUoWFactory = FuncOrderAssignmentUoWFactory(func() commands.OrderAssignmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(f, c.router)
}

func (c *CompositionRoot) CreateAssignOrderCommandHandler() commands.AssignOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignOrderCommandHandler(f, c.router)
}

func (c *CompositionRoot) CreateEscalateOverdueOrdersCommandHandler() commands.EscalateOverdueOrdersCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewEscalateOverdueOrdersCommandHandler(f, c.router, c.logger)
}

func (c *CompositionRoot) CreateGetQueueStatisticsQueryHandler() queries.GetQueueStatisticsQueryHandler {
	return queries.NewGetQueueStatisticsQueryHandler(c.queue)
}

func (c *CompositionRoot) CreateGetStaffWorkloadQueryHandler() queries.GetStaffWorkloadQueryHandler {
	return queries.NewGetStaffWorkloadQueryHandler(c.staffRepo, c.queue)
}

// CreateHTTPServer builds the REST adapter with all use case handlers wired.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateAssignOrderCommandHandler(),
		c.CreateGetQueueStatisticsQueryHandler(),
		c.CreateGetStaffWorkloadQueryHandler(),
	)
}

// CreateWebSocketHandler builds the WebSocket adapter bound to the hub.
func (c *CompositionRoot) CreateWebSocketHandler() (*ws.Handler, error) {
	return ws.NewHandler(c.hub, c.logger)
}

// CreateJobManager builds the background job coordinator.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateEscalateOverdueOrdersCommandHandler(),
		c.escalationThreshold,
		c.queue,
		c.logger,
	)
}

// readOnlyTracker satisfies the aggregate tracking hook for repositories used
// outside a unit of work. Read paths never commit, so there is nothing to track.
type readOnlyTracker struct{}

func (readOnlyTracker) TrackAggregate(kernel.UUID, any) {}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOrderAssignmentUoWFactory func() commands.OrderAssignmentUoW

func (f FuncOrderAssignmentUoWFactory) Create() commands.OrderAssignmentUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
