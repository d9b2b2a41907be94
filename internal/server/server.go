package server

import (
	"context"
	"net/http"

	"github.com/sahu-SuMiT/WeNews/internal/auth"
	"github.com/sahu-SuMiT/WeNews/internal/config"
	"github.com/sahu-SuMiT/WeNews/internal/dashboard"
	"github.com/sahu-SuMiT/WeNews/internal/earning"
	"github.com/sahu-SuMiT/WeNews/internal/investment"
	"github.com/sahu-SuMiT/WeNews/internal/label"
	"github.com/sahu-SuMiT/WeNews/internal/level"
	"github.com/sahu-SuMiT/WeNews/internal/notification"
	"github.com/sahu-SuMiT/WeNews/internal/user"
	"github.com/sahu-SuMiT/WeNews/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	db         *sqlx.DB
	config     *config.Config
	dispatcher *notification.Dispatcher
}

func New(db *sqlx.DB, cfg *config.Config, dispatcher *notification.Dispatcher) *Server {
	registerValidators()

	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	walletHandler := wallet.NewHandler(db, dispatcher)
	earningHandler := earning.NewHandler(db, dispatcher, cfg.DailyLoginBaseReward, cfg.DailyLoginExp)
	levelHandler := level.NewHandler(db, dispatcher)
	labelHandler := label.NewHandler(db)
	investmentHandler := investment.NewHandler(db)
	notificationHandler := notification.NewHandler(db)
	dashboardHandler := dashboard.NewHandler(db)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.Me)
		protected.POST("/news/read", userHandler.RecordNewsRead)

		walletGroup := protected.Group("/wallet")
		{
			walletGroup.GET("/balance", walletHandler.GetBalance)
			walletGroup.GET("/transactions", walletHandler.ListTransactions)
			walletGroup.GET("/stats", walletHandler.GetStats)
			walletGroup.POST("/withdraw", walletHandler.RequestWithdrawal)
			walletGroup.GET("/withdrawals", walletHandler.ListMyWithdrawals)
		}

		earningsGroup := protected.Group("/earnings")
		{
			earningsGroup.GET("/daily", earningHandler.GetDailyEarnings)
			earningsGroup.GET("/today", earningHandler.GetTodayEarnings)
			earningsGroup.GET("/summary", earningHandler.GetEarningsSummary)
			earningsGroup.GET("/stats", earningHandler.GetEarningsStats)
			earningsGroup.POST("/daily-login", ClaimRateLimitMiddleware(), earningHandler.ClaimDailyLogin)
			earningsGroup.GET("/level", levelHandler.GetUserLevel)
			earningsGroup.POST("/experience", levelHandler.AddExperience)
			earningsGroup.GET("/rewards", levelHandler.GetLevelRewards)
		}

		labelsGroup := protected.Group("/labels")
		{
			labelsGroup.GET("/active", labelHandler.GetActiveLabels)
			labelsGroup.GET("/achievements/summary", labelHandler.GetUserAchievements)
			labelsGroup.GET("/:labelID", labelHandler.GetLabelDetails)
			labelsGroup.POST("/:labelID/claim", labelHandler.ClaimLabel)
		}

		investmentGroup := protected.Group("/investment")
		{
			investmentGroup.GET("/plans", investmentHandler.GetPlans)
			investmentGroup.GET("/levels", investmentHandler.GetLevelStructure)
			investmentGroup.POST("/purchase", investmentHandler.Purchase)
			investmentGroup.GET("/my-investment", investmentHandler.GetMyInvestment)
			investmentGroup.POST("/claim-daily", ClaimRateLimitMiddleware(), investmentHandler.ClaimDaily)
		}

		notificationsGroup := protected.Group("/notifications")
		{
			notificationsGroup.GET("", notificationHandler.List)
			notificationsGroup.GET("/unread-count", notificationHandler.UnreadCount)
			notificationsGroup.PUT("/mark-all-read", notificationHandler.MarkAllRead)
			notificationsGroup.PUT("/:id/read", notificationHandler.MarkRead)
			notificationsGroup.DELETE("/:id", notificationHandler.Delete)
		}

		dashboardGroup := protected.Group("/dashboard")
		{
			dashboardGroup.GET("/overview", dashboardHandler.GetOverview)
			dashboardGroup.GET("/stats", dashboardHandler.GetQuickStats)
			dashboardGroup.GET("/earnings", dashboardHandler.GetEarningsSummary)
			dashboardGroup.GET("/progress", dashboardHandler.GetProgress)
		}
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("/labels", labelHandler.ListLabels)
		admin.POST("/labels", labelHandler.CreateLabel)
		admin.PUT("/labels/:labelID", labelHandler.UpdateLabel)
		admin.GET("/withdrawals", walletHandler.ListAllWithdrawals)
		admin.PUT("/withdrawals/:withdrawalID/process", walletHandler.ProcessWithdrawal)
		admin.GET("/notifications/stats", notificationHandler.GetStats)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-notification", TestNotification(dispatcher))
	SetupSwagger(router)

	return &Server{
		router:     router,
		db:         db,
		config:     cfg,
		dispatcher: dispatcher,
	}
}

func (s *Server) Start(port string) error {
	s.httpServer = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
