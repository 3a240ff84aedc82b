package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/config"
	"github.com/chandanojha35419/currency-exchange-api/internals/controllers"
	"github.com/chandanojha35419/currency-exchange-api/internals/middleware"
	"github.com/chandanojha35419/currency-exchange-api/internals/utils"
)

// SetupRouter wires every endpoint. The rate fetcher is injected so tests can
// stub the provider.
func SetupRouter(db *gorm.DB, settings *config.Settings, fetcher utils.RateFetcher) *gin.Engine {
	r := gin.Default()

	emailManager := utils.NewEmailManager(&utils.SMTPConfig{
		Host:     settings.SMTPHost,
		Port:     settings.SMTPPort,
		User:     settings.SMTPUser,
		Password: settings.SMTPPassword,
		AppName:  settings.AppName,
		CodeExp:  settings.OTPLifetimeMinutes,
	})
	dispatcher := utils.NewOTPDispatcher(emailManager, nil)

	if fetcher == nil {
		fetcher = utils.NewAlphaVantageClient(settings.RateAPIKey)
	}

	authMiddleware := middleware.NewRequireAuthMiddleware(db)
	authCtrl := controllers.NewAuthController(db, dispatcher, settings)
	userCtrl := controllers.NewUserController(db, settings)
	currencyCtrl := controllers.NewCurrencyController(db, fetcher)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "active",
			"message": settings.AppName + " is running",
		})
	})

	user := r.Group("/user")
	{
		user.POST("/signup", authCtrl.Signup)
		user.POST("/login", authCtrl.Login)

		otp := user.Group("/login/otp")
		{
			otp.POST("/request", authCtrl.RequestLoginOTP)
			otp.POST("/confirm", authCtrl.ConfirmLoginOTP)
		}

		user.POST("/password/reset-request", authCtrl.RequestPasswordReset)
		user.POST("/password/reset", authCtrl.ConfirmPasswordReset)

		protected := user.Group("/")
		protected.Use(authMiddleware.RequireAuth)
		{
			protected.GET("/", userCtrl.MyUser)
			protected.PATCH("/", userCtrl.UpdateMyUser)
			protected.POST("/logout", authCtrl.Logout)
			protected.POST("/password/change", authCtrl.ChangePassword)
		}
	}

	staff := r.Group("/staff")
	{
		staff.POST("/login", authCtrl.StaffLogin)

		admin := staff.Group("/")
		admin.Use(authMiddleware.RequireAuth, authMiddleware.RequireStaff)
		{
			admin.POST("/logout", authCtrl.Logout)
			admin.GET("/users", userCtrl.ListUsers)
			admin.POST("/users", userCtrl.CreateUser)
			admin.GET("/staffs", userCtrl.ListStaff)
			admin.PUT("/users/:id/password", authMiddleware.RequireAdmin, userCtrl.AdminResetPassword)
		}
	}

	currency := r.Group("/currency")
	currency.Use(authMiddleware.RequireAuth, authMiddleware.RequireStaff)
	{
		currency.GET("/", currencyCtrl.ListCurrencies)
		currency.POST("/", currencyCtrl.CreateCurrency)
	}

	return r
}
