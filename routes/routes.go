package routes

import (
	"net/http"
	"time"

	"salonhub-backend/config"
	"salonhub-backend/controllers"
	"salonhub-backend/services"
	"salonhub-backend/utils"

	"github.com/casbin/casbin/v2"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the router needs to build its controllers.
type Deps struct {
	Config   config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Loc      *time.Location
	Enforcer *casbin.Enforcer
	Issuer   *utils.TokenIssuer

	Tasks     *services.Tasks
	Auth      *services.AuthService
	Billing   *services.BillingService
	Reports   *services.ReportService
	Agg       *services.Aggregator
	Reminders *services.ReminderService
	Mailer    services.Mailer

	// Metrics and Gatherer are nil when metrics are disabled.
	Metrics  *config.HTTPMetrics
	Gatherer prometheus.Gatherer
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.PerformanceLogger(d.Log, d.Metrics))
	r.Use(utils.ExposeErrors(!d.Config.IsProduction()))

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			utils.RespondWithServerError(c, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	r.Static("/uploads", d.Config.UploadsDir())

	salon := services.SalonInfo{
		Name:    d.Config.SalonName,
		Address: d.Config.SalonAddress,
		Phone:   d.Config.SalonPhone,
	}

	authController := &controllers.AuthController{Auth: d.Auth, Mailer: d.Mailer, Tasks: d.Tasks, FrontendURL: d.Config.FrontendURL}
	userController := &controllers.UserController{DB: d.DB}
	customerController := &controllers.CustomerController{DB: d.DB}
	staffController := &controllers.StaffController{DB: d.DB}
	serviceController := &controllers.ServiceController{DB: d.DB}
	productController := &controllers.ProductController{DB: d.DB}
	appointmentController := &controllers.AppointmentController{DB: d.DB, Tasks: d.Tasks, Reminders: d.Reminders, Loc: d.Loc}
	billingController := &controllers.BillingController{DB: d.DB, Billing: d.Billing, Salon: salon, Loc: d.Loc}
	reportController := &controllers.ReportController{DB: d.DB, Reports: d.Reports, Agg: d.Agg, Loc: d.Loc}
	dashboardController := &controllers.DashboardController{DB: d.DB, Agg: d.Agg, Loc: d.Loc}
	carouselController := &controllers.CarouselController{DB: d.DB, Log: d.Log, Dir: d.Config.CarouselDir()}
	reminderController := &controllers.ReminderController{DB: d.DB}

	authn := utils.AuthMiddleware(d.Issuer, d.Auth.Active)
	can := func(obj string) gin.HandlerFunc { return utils.Authorize(d.Enforcer, obj) }

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.GET("/verify", authController.Verify)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.GET("/validate-reset-token/:token", authController.ValidateResetToken)
		auth.POST("/reset-password/:token", authController.ResetPassword)
	}

	// Carousel images are listed publicly on the landing page
	api.GET("/carousel-images", carouselController.GetCarouselImages)
	carousel := api.Group("/carousel-images", authn, can(utils.ObjectCarousel))
	{
		carousel.POST("", carouselController.UploadCarouselImage)
		carousel.PUT("/:id", carouselController.UpdateCarouselImage)
		carousel.DELETE("/:id", carouselController.DeleteCarouselImage)
	}

	users := api.Group("/users", authn, can(utils.ObjectUser))
	{
		users.POST("", userController.CreateUser)
		users.GET("", userController.GetUsers)
		users.GET("/:id", userController.GetUser)
		users.PUT("/:id", userController.UpdateUser)
		users.DELETE("/:id", userController.DeleteUser)
	}

	// Customer routes
	customers := api.Group("/customers", authn, can(utils.ObjectCustomer))
	{
		customers.POST("", customerController.CreateCustomer)
		customers.GET("", customerController.GetCustomers)
		customers.GET("/phone/:phoneNumber", customerController.GetCustomerByPhone)
		customers.GET("/:id", customerController.GetCustomer)
		customers.PUT("/:id", customerController.UpdateCustomer)
		customers.DELETE("/:id", customerController.DeleteCustomer)
	}

	staff := api.Group("/staff", authn, can(utils.ObjectStaff))
	{
		staff.POST("", staffController.CreateStaff)
		staff.GET("", staffController.GetStaff)
		staff.GET("/:id", staffController.GetStaffMember)
		staff.PUT("/:id", staffController.UpdateStaff)
		staff.PATCH("/:id/availability", staffController.UpdateAvailability)
		staff.DELETE("/:id", staffController.DeleteStaff)
	}

	// Service routes
	svc := api.Group("/services", authn, can(utils.ObjectService))
	{
		svc.POST("", serviceController.CreateService)
		svc.GET("", serviceController.GetServices)
		svc.GET("/:id", serviceController.GetService)
		svc.PUT("/:id", serviceController.UpdateService)
		svc.DELETE("/:id", serviceController.DeleteService)
	}

	products := api.Group("/products", authn, can(utils.ObjectProduct))
	{
		products.POST("", productController.CreateProduct)
		products.GET("", productController.GetProducts)
		products.GET("/:id", productController.GetProduct)
		products.PUT("/:id", productController.UpdateProduct)
		products.DELETE("/:id", productController.DeleteProduct)
	}

	appointments := api.Group("/appointments", authn, can(utils.ObjectAppointment))
	{
		appointments.POST("", appointmentController.CreateAppointment)
		appointments.GET("", appointmentController.GetAppointments)
		appointments.GET("/:id", appointmentController.GetAppointment)
		appointments.PUT("/:id", appointmentController.UpdateAppointment)
		appointments.DELETE("/:id", appointmentController.DeleteAppointment)
	}

	// Billing routes
	billing := api.Group("/billing", authn, can(utils.ObjectBilling))
	{
		billing.POST("", billingController.CreateBill)
		billing.GET("", billingController.GetBills)
		billing.GET("/list", billingController.ListBills)
		billing.GET("/:id", billingController.GetBill)
		billing.GET("/:id/receipt", billingController.GetReceipt)
		billing.PUT("/:id", billingController.UpdateBill)
		billing.DELETE("/:id", billingController.DeleteBill)
	}

	//Reports routes
	reports := api.Group("/reports", authn, can(utils.ObjectReport))
	{
		reports.GET("", reportController.GetReports)
		reports.GET("/summary", reportController.GetSummary)
		reports.GET("/analytics", reportController.GetReportAnalytics)
		reports.POST("/generate", reportController.GenerateCustomReport)
		reports.POST("/generate/:period", reportController.GenerateReport)
		reports.GET("/:id", reportController.GetReport)
	}

	// Dashboard routes
	api.GET("/dashboard", authn, can(utils.ObjectDashboard), dashboardController.GetDashboard)

	reminders := api.Group("/reminders", authn, can(utils.ObjectReminder))
	{
		reminders.GET("/templates", reminderController.GetReminderTemplates)
		reminders.PUT("/templates/:type", reminderController.UpdateReminderTemplate)
		reminders.GET("/logs", reminderController.GetReminderLogs)
	}

	return r
}
