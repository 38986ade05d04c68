package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/budget_backend/config"
	"bitbucket.org/mmdatafocus/budget_backend/handlers"
	"bitbucket.org/mmdatafocus/budget_backend/middlewares"
	"bitbucket.org/mmdatafocus/budget_backend/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

var tracer = otel.Tracer("budget-backend")

var fiscalYearPattern = regexp.MustCompile(`^\d{4}(-\d{4})?$`)

// fiscal_year labels are either a single year ("2025") or a span ("2024-2025").
func fiscalYearValidator(fl validator.FieldLevel) bool {
	return fiscalYearPattern.MatchString(fl.Field().String())
}

func setupRouter() *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Correlation-Id")
	r.Use(cors.New(corsConfig))
	r.Use(func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+c.Request.URL.Path)
		defer span.End()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.Use(middlewares.CorrelationMiddleware())
	r.Use(middlewares.AuthMiddleware())

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("fiscalyear", fiscalYearValidator); err != nil {
			log.Fatalf("register fiscalyear validator: %v", err)
		}
	}

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Line Ministry Budget API is running")
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", handlers.RegisterHandler)
		auth.POST("/login", handlers.LoginHandler)
	}

	ministries := r.Group("/api/ministries")
	{
		ministries.GET("/", handlers.ListMinistriesHandler)
		ministries.POST("/add", handlers.AddMinistryHandler)
	}

	offices := r.Group("/api/offices")
	{
		offices.GET("/", handlers.ListOfficesHandler)
		offices.GET("/:ministry_id", handlers.ListOfficesByMinistryHandler)
		offices.POST("/add", handlers.AddOfficeHandler)
	}

	budgets := r.Group("/api/budgets")
	{
		budgets.GET("/", handlers.ListBudgetsHandler)
		budgets.POST("/add", handlers.AddBudgetHandler)
	}

	funds := r.Group("/api/funds")
	{
		funds.POST("/request", handlers.CreateFundRequestHandler)
		funds.GET("/pending", handlers.ListPendingRequestsHandler)
		funds.GET("/approved", handlers.ListApprovedRequestsHandler)
		funds.GET("/rejected", handlers.ListRejectedRequestsHandler)
		funds.POST("/approve/:id", handlers.ApproveRequestHandler)
		funds.POST("/reject/:id", handlers.RejectRequestHandler)
		funds.POST("/approve-all", handlers.BulkApproveHandler)
		funds.POST("/transfer/:id", handlers.TransferHandler)
		funds.GET("/transfers", handlers.ListTransfersHandler)
		funds.GET("/expenditures/:office_id/:fiscal_year", handlers.ListExpendituresHandler)
		funds.GET("/budget/:ministry_id/:fiscal_year", handlers.BudgetBalanceHandler)
		funds.GET("/office-funds/:office_id/:fiscal_year", handlers.OfficeFundsHandler)
		funds.POST("/spend", handlers.SpendHandler)
		funds.POST("/salaries/request-monthly", handlers.SalaryRequestHandler)
	}

	return r
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	router := setupRouter()
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start listening first; DB and redis connect with retries afterwards so
	// the container becomes reachable quickly.
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("server exited")
}
