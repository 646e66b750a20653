package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/claimguru/claimguard/audit"
	"github.com/claimguru/claimguard/authz"
	"github.com/claimguru/claimguard/config"
	"github.com/claimguru/claimguard/controller"
	"github.com/claimguru/claimguard/dao"
	"github.com/claimguru/claimguard/db"
	logger "github.com/claimguru/claimguard/logging"
	"github.com/claimguru/claimguard/router"
	"github.com/claimguru/claimguard/service"
	"github.com/claimguru/claimguard/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Neo4j
	if err := db.InitNeo4j(); err != nil {
		logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
	}
	defer db.CloseNeo4j()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize utilities and the audit trail
	validationUtil := util.NewValidationUtil()
	notificationService := util.NewNotificationService()
	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize Elasticsearch audit repository", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository)

	// Initialize DAOs
	userDAO := dao.NewUserDAO(db.Neo4jDriver, auditService)
	claimDAO := dao.NewClaimDAO(db.Neo4jDriver, auditService)
	documentDAO := dao.NewDocumentDAO(db.Neo4jDriver, auditService)
	resourceStore := dao.NewResourceStore(claimDAO, documentDAO)

	// Initialize the authorization engine
	resolver := authz.NewResolver(userDAO, config.GetDuration("authz.permissionCacheTTL"))
	var evaluatorOpts []authz.EvaluatorOption
	if config.GetString("authz.defaultResourcePolicy") == "deny" {
		evaluatorOpts = append(evaluatorOpts, authz.WithDefaultDeny())
	}
	evaluator := authz.NewEvaluator(resolver, userDAO, resourceStore, auditService, evaluatorOpts...)

	// Initialize services and controllers
	services := service.InitializeServices(
		userDAO,
		claimDAO,
		documentDAO,
		resolver,
		evaluator,
		validationUtil,
		notificationService,
		eventBus,
	)
	controllers := controller.InitializeControllers(services, auditService)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(
		controllers,
		config.GetInt("ratelimit.requests"),
		config.GetDuration("ratelimit.duration"),
	)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Drain in-flight audit writes before exiting
	evaluator.Flush()

	logger.Info("Server exiting")
}
