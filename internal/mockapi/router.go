package mockapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/municollect/internal/logging"
)

// NewRouter wires the API routes onto a gin engine. Metrics are registered
// on reg and served from /metrics.
func NewRouter(svc *Service, log logging.Logger, reg *prometheus.Registry) (*gin.Engine, error) {
	m, err := newHTTPMetrics(reg)
	if err != nil {
		return nil, err
	}

	h := &handlers{svc: svc, log: log}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), m.middleware(), h.accessLog())

	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/refresh", h.refresh)
		auth.DELETE("/logout", h.authOptional(), h.logout)
	}

	users := api.Group("/users", h.authRequired())
	{
		users.GET("/profile", h.profile)
		users.PUT("/profile", h.updateProfile)
		users.GET("/municipalities", h.userMunicipalities)
	}

	munis := api.Group("/municipalities")
	{
		munis.GET("", h.municipalities)
		munis.GET("/:id", h.municipality)
		munis.POST("", h.authRequired(), h.createMunicipality)
		munis.PUT("/:id", h.authRequired(), h.updateMunicipality)
	}

	payments := api.Group("/payments")
	{
		payments.GET("/services", h.paymentServices)
		payments.POST("/initiate", h.authRequired(), h.initiatePayment)
		payments.GET("/history", h.authRequired(), h.paymentHistory)
		payments.GET("/:id/status", h.authRequired(), h.paymentStatus)
		payments.PUT("/:id/status", h.authRequired(), h.updatePaymentStatus)
	}

	qr := api.Group("/qr")
	{
		qr.POST("/generate", h.authRequired(), h.generateQRCode)
		qr.GET("/:code/details", h.qrCodeDetails)
	}

	notes := api.Group("/notifications", h.authRequired())
	{
		notes.POST("/send", h.sendNotification)
		notes.GET("/history", h.notificationHistory)
		notes.PUT("/:id/read", h.markNotificationRead)
	}

	return r, nil
}
