package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonhub-backend/config"
	"salonhub-backend/models"
	"salonhub-backend/routes"
	"salonhub-backend/services"
	"salonhub-backend/utils"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	cron "github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, found, err := config.Load()
	if err != nil {
		return err
	}

	log, err := config.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	if !found {
		log.Info("No .env file found")
	}

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	db, err := config.ConnectDB(cfg, log)
	if err != nil {
		return err
	}
	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.CarouselDir(), 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	if err := seedSuperAdmin(ctx, db, cfg, log); err != nil {
		return err
	}

	issuer := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry())
	enforcer, err := utils.NewEnforcer()
	if err != nil {
		return fmt.Errorf("load access policy: %w", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	tasks := services.NewTasks(log, cfg.Workers, cfg.Workers*16)
	agg := services.NewAggregator(db)

	var messenger services.Messenger = services.LogMessenger{Log: log}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		messenger = services.NewTwilioMessenger(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, cfg.TwilioWhatsAppNumber)
	} else {
		log.Warn("Twilio credentials not set, messages will only be logged")
	}

	var mailer services.Mailer = services.LogMailer{Log: log}
	if cfg.SMTPHost != "" {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	}

	reminders := services.NewReminderService(db, log, messenger, loc)
	if err := reminders.EnsureTemplates(ctx); err != nil {
		return err
	}

	deps := routes.Deps{
		Config:    cfg,
		Log:       log,
		DB:        db,
		Loc:       loc,
		Enforcer:  enforcer,
		Issuer:    issuer,
		Tasks:     tasks,
		Auth:      services.NewAuthService(db, issuer),
		Billing:   services.NewBillingService(db, log, tasks, services.NewCustomerSync(db), node, cfg.TotalsPolicy),
		Reports:   services.NewReportService(db, agg, loc),
		Agg:       agg,
		Reminders: reminders,
		Mailer:    mailer,
	}
	if cfg.MetricsEnabled {
		deps.Metrics = config.NewHTTPMetrics(prometheus.DefaultRegisterer)
		deps.Gatherer = prometheus.DefaultGatherer
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := routes.SetupRouter(deps)
	printRoutes(log, r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var scheduler *cron.Cron
	if cfg.RemindersEnabled {
		scheduler, err = utils.StartScheduler(log, cfg.ReminderCron, "daily-reminders", func() {
			reminders.SendDailyReminders(ctx)
		})
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if scheduler != nil {
		g.Go(func() error {
			<-gctx.Done()
			<-scheduler.Stop().Done()
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		tasks.Close()
		return err
	})

	return g.Wait()
}

// seedSuperAdmin creates the first superadmin when the users table is empty.
func seedSuperAdmin(ctx context.Context, db *gorm.DB, cfg config.Config, log *zap.Logger) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := models.User{
		FirstName: "Super",
		LastName:  "Admin",
		Email:     cfg.SeedAdminEmail,
		Password:  cfg.SeedAdminPassword,
		Role:      models.RoleSuperAdmin,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("seed superadmin: %w", err)
	}
	log.Info("Seeded superadmin", zap.String("email", admin.Email))
	return nil
}

func printRoutes(log *zap.Logger, r *gin.Engine) {
	for _, route := range r.Routes() {
		log.Debug(fmt.Sprintf("%-6s %s", route.Method, route.Path))
	}
}
