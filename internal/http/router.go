package api

import (
	stdhttp "net/http"

	intconfig "backoffice/internal/config"
	h "backoffice/internal/http/handlers"
	"backoffice/internal/http/middleware"
	"backoffice/internal/services"
	"backoffice/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.LogWarn("", "router", "trusted_proxies", err.Error())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		secured := api.Group("", middleware.RequireAuth(h.ParseToken))
		secured.GET("/auth/me", h.Me)

		clients := secured.Group("/clients")
		clients.GET("", h.GetClients)
		clients.GET("/:id", h.GetClientByID)
		clients.POST("", h.CreateClient)
		clients.PUT("/:id", h.UpdateClient)
		clients.DELETE("/:id", h.DeleteClient)

		destinations := secured.Group("/destinations")
		destinations.GET("", h.GetDestinations)
		destinations.GET("/:id", h.GetDestinationByID)
		destinations.POST("", h.CreateDestination)
		destinations.PUT("/:id", h.UpdateDestination)
		destinations.DELETE("/:id", h.DeleteDestination)

		suppliers := secured.Group("/suppliers")
		suppliers.GET("", h.GetSuppliers)
		suppliers.GET("/:id", h.GetSupplierByID)
		suppliers.POST("", h.CreateSupplier)
		suppliers.PUT("/:id", h.UpdateSupplier)
		suppliers.DELETE("/:id", h.DeleteSupplier)

		trips := secured.Group("/trips")
		mountTrips(trips)

		reservations := secured.Group("/reservations")
		mountReservations(reservations)

		payments := secured.Group("/payments")
		payments.GET("", h.GetPayments)
		payments.GET("/:id", h.GetPaymentByID)
		payments.POST("", h.CreatePayment)
		payments.POST("/:id/mark-paid", h.MarkPaymentPaid)
		payments.POST("/:id/cancel", h.CancelPayment)
		payments.GET("/:id/receipt", h.GetPaymentReceipt)

		cash := secured.Group("/cash")
		mountCash(cash)

		purchases := secured.Group("/purchases")
		purchases.GET("", h.GetPurchases)
		purchases.GET("/:id", h.GetPurchaseByID)
		purchases.POST("", h.CreatePurchase)
		purchases.PUT("/:id", h.UpdatePurchase)
		purchases.POST("/:id/lines", h.AddPurchaseLine)
		purchases.DELETE("/:id/lines/:itemId", h.RemovePurchaseLine)
		purchases.POST("/:id/validate-quote", h.ValidatePurchaseQuote)
		purchases.POST("/:id/mark-paid", h.MarkPurchasePaid)
		purchases.POST("/:id/cancel", h.CancelPurchase)

		reports := secured.Group("/reports")
		reports.GET("/trips", h.GetFinanceReport)
	}

	h.SetRouter(r)
	return r
}

func mountTrips(g *gin.RouterGroup) {
	g.GET("", h.GetTrips)
	g.GET("/:id", h.GetTripByID)
	g.POST("", h.CreateTrip)
	g.PUT("/:id", h.UpdateTrip)
	g.DELETE("/:id", h.DeleteTrip)
	g.POST("/:id/meals", h.AddTripMeal)
	g.POST("/:id/guides", h.AddTripGuide)
	g.POST("/:id/equipment", h.AddTripEquipment)
	g.POST("/:id/transports", h.AddTripTransport)
	g.POST("/:id/hotels", h.AddTripHotel)
	g.POST("/:id/program", h.AddTripProgramDay)
	g.DELETE("/:id/:kind/:itemId", h.RemoveTripOffering)
}

func mountReservations(g *gin.RouterGroup) {
	g.GET("", h.GetReservations)
	g.GET("/export", h.ExportReservationsCSV)
	g.GET("/:id", h.GetReservationByID)
	g.POST("", h.CreateReservation)
	g.POST("/:id/travelers", h.AddReservationTraveler)
	g.DELETE("/:id/travelers/:itemId", h.RemoveReservationTraveler)
	g.POST("/:id/rooms", h.AddReservationRoom)
	g.DELETE("/:id/rooms/:itemId", h.RemoveReservationRoom)
	g.PUT("/:id/supplement", h.SetReservationSupplement)
	g.PUT("/:id/trip", h.ChangeReservationTrip)
	g.POST("/:id/recompute", h.RecomputeReservation)
	g.POST("/:id/confirm", h.ConfirmReservation)
	g.POST("/:id/cancel", h.CancelReservation)
	g.POST("/:id/complete", h.CompleteReservation)
	g.GET("/:id/voucher", h.GetReservationVoucher)
}

func mountCash(g *gin.RouterGroup) {
	g.GET("", h.GetCashEntries)
	g.GET("/balance", h.GetCashBalance)
	g.GET("/report", h.GetCashReport)
	g.GET("/report/pdf", h.GetCashReportPDF)
	g.GET("/export", h.ExportCashCSV)
	g.POST("/recompute", middleware.RequireRole(services.RoleAdmin), h.RecomputeCash)
	g.GET("/:id", h.GetCashEntryByID)
	g.POST("", h.CreateCashEntry)
	g.PUT("/:id", h.UpdateCashEntry)
	g.POST("/:id/validate", h.ValidateCashEntry)
	g.POST("/:id/cancel", h.CancelCashEntry)
}
