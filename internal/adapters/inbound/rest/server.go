// Package rest exposes the engine over HTTP for non-conversational
// clients: back-office tooling, fulfillment, dashboards.
package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ordercraft/ordercraft/internal/application"
	"github.com/ordercraft/ordercraft/internal/domain"
)

type Server struct {
	engine  *gin.Engine
	orders  *application.OrderService
	catalog *application.CatalogService
}

// @title OrderCraft API
// @version 0.1.0
// @description Order construction and validation engine for conversational purchase flows.
// @BasePath /
func NewServer(orders *application.OrderService, catalog *application.CatalogService) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	s := &Server{engine: r, orders: orders, catalog: catalog}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.engine.GET("/healthz", s.health)

	orders := s.engine.Group("/orders")
	orders.POST("", s.createOrder)
	orders.GET("", s.listOrders)
	orders.GET(":id", s.getOrder)
	orders.PATCH(":id/status", s.updateOrderStatus)
	orders.GET("/stats", s.orderStats)

	s.engine.GET("/products/search", s.searchProducts)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrExternalTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrIDCollisionExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
