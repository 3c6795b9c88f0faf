package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akylbek/payment-system/payment-gateway/internal/handlers"
	"github.com/akylbek/payment-system/payment-gateway/internal/telemetry"
)

func NewRouter(paymentHandler *handlers.PaymentHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "payment-gateway"})
	})

	v1 := r.Group("/api/v1")
	v1.POST("/payments", paymentHandler.PostPayment)
	v1.GET("/payments/:id", paymentHandler.GetPayment)

	return r
}
