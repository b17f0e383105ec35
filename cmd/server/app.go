package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/console-api/internal/config"
	"github.com/phrazzld/console-api/internal/email"
	"github.com/phrazzld/console-api/internal/platform/metrics"
	"github.com/phrazzld/console-api/internal/platform/postgres"
	"github.com/phrazzld/console-api/internal/redact"
	"github.com/phrazzld/console-api/internal/service"
	"github.com/phrazzld/console-api/internal/service/auth"
	"github.com/phrazzld/console-api/internal/task"
	"golang.org/x/crypto/bcrypt"
)

// drainTimeout bounds how long shutdown waits for queued e-mails.
const drainTimeout = 15 * time.Second

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sqlx.DB

	metrics *metrics.Metrics

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	userService        service.UserService
	applicationService service.ApplicationService
	ticketService      service.TicketService
	membershipService  service.MembershipService

	taskQueue  *task.TaskQueue
	workerPool *task.WorkerPool
}

// newApplication creates the stores, services and background workers on top
// of an open database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sqlx.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	var err error
	app.jwtService, err = newSessionTokens(cfg.JWT, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Background delivery of registration mails.
	app.taskQueue = task.NewTaskQueue(cfg.Tasks.QueueSize, logger)
	app.workerPool = task.NewWorkerPool(app.taskQueue, task.WorkerPoolConfig{WorkerCount: cfg.Tasks.WorkerCount}, logger)
	app.workerPool.SetObserver(app.metrics.TaskObserved)

	emailService, err := newEmailService(cfg, app.taskQueue, app.metrics, logger)
	if err != nil {
		return nil, err
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	applicationStore := postgres.NewPostgresApplicationStore(db, logger)
	membershipStore := postgres.NewPostgresMembershipStore(db, logger)
	roleStore := postgres.NewPostgresRoleStore(db, logger)
	groupStore := postgres.NewPostgresGroupStore(db, logger)
	subscriptionStore := postgres.NewPostgresSubscriptionStore(db, logger)
	apiKeyStore := postgres.NewPostgresAPIKeyStore(db, logger)
	auditStore := postgres.NewPostgresAuditStore(db, logger)
	apiStore := postgres.NewPostgresAPIStore(db, logger)
	metadataStore := postgres.NewPostgresMetadataStore(db, logger)

	roles := service.NewRoleService(roleStore, logger)
	memberships := service.NewMembershipService(membershipStore, roles, logger)
	audit := service.NewAuditService(auditStore, app.metrics, logger)

	users, err := service.NewUserService(service.UserServiceDeps{
		Users:       userStore,
		Roles:       roles,
		Memberships: memberships,
		Audit:       audit,
		Email:       emailService,
		Tokens: auth.NewRegistrationTokenService(
			cfg.JWT.Secret,
			cfg.JWT.Issuer,
			time.Duration(cfg.User.Creation.Token.ExpireAfter)*time.Second,
		),
		Hasher: auth.NewBcryptHasher(bcrypt.DefaultCost),
	}, service.NewUserSettings(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	apps, err := service.NewApplicationService(service.ApplicationServiceDeps{
		Applications:  applicationStore,
		Users:         users,
		Memberships:   memberships,
		Groups:        service.NewGroupService(groupStore, logger),
		Subscriptions: service.NewSubscriptionService(subscriptionStore, logger),
		APIKeys:       service.NewAPIKeyService(apiKeyStore, logger),
		Audit:         audit,
		Metrics:       app.metrics,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create application service: %w", err)
	}
	users.UseApplications(apps)

	tickets, err := service.NewTicketService(service.TicketServiceDeps{
		Users:        users,
		Applications: apps,
		APIs:         service.NewAPIService(apiStore, logger),
		Metadata:     service.NewMetadataService(metadataStore, logger),
		Email:        emailService,
	}, service.NewTicketSettings(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket service: %w", err)
	}

	app.userService = users
	app.applicationService = apps
	app.ticketService = tickets
	app.membershipService = memberships

	logger.Info("application initialized")
	return app, nil
}

// newSessionTokens signs session tokens with the configured secret. Without
// one, an ephemeral key is generated so that login keeps working; sessions
// then do not survive a restart and self-registration stays disabled.
func newSessionTokens(cfg config.JWTConfig, logger *slog.Logger) (auth.JWTService, error) {
	if cfg.Secret == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		cfg.Secret = hex.EncodeToString(key)
		logger.Warn("jwt.secret is not set; using an ephemeral session key")
	}
	return auth.NewJWTService(cfg)
}

// newEmailService delivers through SMTP when enabled and only logs messages
// otherwise.
func newEmailService(cfg *config.Config, queue task.TaskQueueWriter, m *metrics.Metrics, logger *slog.Logger) (*email.Service, error) {
	renderer, err := email.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load e-mail templates: %w", err)
	}

	var sender email.Sender
	if cfg.Email.Enabled {
		sender = email.NewSMTPSender(cfg.Email, logger)
		logger.Info("smtp delivery enabled", slog.String("host", cfg.Email.Host), slog.Int("port", cfg.Email.Port))
	} else {
		sender = email.NewLogSender(logger)
		logger.Warn("smtp delivery disabled; e-mails are only logged")
	}

	svc, err := email.NewService(sender, renderer, queue, email.Options{
		From:          cfg.Email.From,
		SubjectPrefix: cfg.Email.SubjectPrefix,
		Metrics:       m,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create e-mail service: %w", err)
	}
	return svc, nil
}

// Run starts the workers and serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	app.workerPool.Start()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		app.cleanup()
		return fmt.Errorf("server error: %w", err)
	}
	app.cleanup()
	return nil
}

// cleanup stops accepting background work, lets queued tasks finish and
// closes the database.
func (app *application) cleanup() {
	if app.taskQueue != nil {
		app.taskQueue.Close()
	}
	if app.workerPool != nil {
		ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		if err := app.workerPool.Drain(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			app.logger.Error("failed to drain worker pool", redact.Attr(err))
		} else if err != nil {
			app.logger.Warn("worker pool drain timed out; pending tasks were cancelled")
		}
		cancel()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", redact.Attr(err))
		}
	}

	app.logger.Info("application shutdown completed")
}
