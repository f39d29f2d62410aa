package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	orderdomain "github.com/openmerchant/paygate/internal/order/domain"
	"github.com/openmerchant/paygate/pkg/db/pagination"
)

func (s *Server) ListOrders(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status        string `form:"status"`
		PaymentMethod string `form:"payment_method"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.List(c.Request.Context(), orderdomain.ListOrderRequest{
		PageToken:     query.PageToken,
		PageSize:      int32(query.PageSize),
		Status:        strings.TrimSpace(query.Status),
		PaymentMethod: strings.TrimSpace(query.PaymentMethod),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOrderByID(c *gin.Context) {
	id, err := parseOrderID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.orderSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListOrderItems(c *gin.Context) {
	id, err := parseOrderID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.orderSvc.Items(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// OrderReceived is the order-received page. The path segment is the
// order key from the checkout redirect, not the numeric order id.
func (s *Server) OrderReceived(c *gin.Context) {
	key := strings.TrimSpace(c.Param("id"))

	view, err := s.checkoutSvc.ThankYou(c.Request.Context(), key)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) GetOrderPaymentData(c *gin.Context) {
	id, err := parseOrderID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	view, err := s.checkoutSvc.AdminOrderData(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (s *Server) UpdateOrderStatus(c *gin.Context) {
	id, err := parseOrderID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.orderSvc.UpdateStatus(c.Request.Context(), id, req.Status, strings.TrimSpace(req.Note)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": orderdomain.NormalizeStatus(req.Status)}})
}

func (s *Server) ListOrderStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": orderdomain.Statuses()})
}

func parseOrderID(c *gin.Context) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return 0, newValidationError("id", "invalid_id", "invalid order id")
	}
	return id, nil
}
