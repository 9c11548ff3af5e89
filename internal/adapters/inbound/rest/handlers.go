package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ordercraft/ordercraft/internal/application"
	"github.com/ordercraft/ordercraft/internal/domain"
)

// @Summary Create order from a conversational request
// @Tags orders
// @Accept json
// @Produce json
// @Param input body application.CreateOrderInput true "Partial order request plus conversation history"
// @Success 201 {object} domain.Outcome
// @Failure 400 {object} map[string]string
// @Failure 409 {object} domain.Outcome
// @Failure 504 {object} map[string]string
// @Router /orders [post]
func (s *Server) createOrder(c *gin.Context) {
	var in application.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	outcome, err := s.orders.CreateOrder(c.Request.Context(), in)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}

	// Clarifications and rejections are conversational conflicts, not
	// protocol failures; the structured outcome rides in the body either way.
	if outcome.Kind == domain.OutcomeOrderCreated {
		c.JSON(http.StatusCreated, outcome)
		return
	}
	c.JSON(http.StatusConflict, outcome)
}

// @Summary List orders
// @Tags orders
// @Produce json
// @Param status query string false "Filter by status (pending, confirmed, rejected)"
// @Param limit query int false "Maximum number of orders (default 10)"
// @Success 200 {array} domain.Order
// @Failure 400 {object} map[string]string
// @Router /orders [get]
func (s *Server) listOrders(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	status := domain.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	list, err := s.orders.ListOrders(c.Request.Context(), status, limit)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	o, err := s.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// @Summary Update order status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body updateStatusReq true "New status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/status [patch]
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	status := domain.OrderStatus(req.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	o, err := s.orders.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

// @Summary Order statistics
// @Tags orders
// @Produce json
// @Success 200 {object} domain.OrderStats
// @Router /orders/stats [get]
func (s *Server) orderStats(c *gin.Context) {
	stats, err := s.orders.OrderStats(c.Request.Context())
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Search the product catalog
// @Tags products
// @Produce json
// @Param q query string true "Search query"
// @Param category query string false "Category filter"
// @Param max_price query string false "Price ceiling, decimal string"
// @Param limit query int false "Maximum number of results"
// @Success 200 {array} domain.ProductReference
// @Failure 400 {object} map[string]string
// @Router /products/search [get]
func (s *Server) searchProducts(c *gin.Context) {
	q := domain.CatalogQuery{
		Text:     c.Query("q"),
		Category: c.Query("category"),
	}
	if q.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	if v := c.Query("max_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
			return
		}
		q.MaxPrice = price
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		q.Limit = n
	}

	products, err := s.catalog.Search(c.Request.Context(), q)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}
