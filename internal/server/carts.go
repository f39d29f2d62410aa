package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	cartdomain "github.com/openmerchant/paygate/internal/cart/domain"
)

type addCartItemRequest struct {
	Token     string `json:"token"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

func (s *Server) AddCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	cart, err := s.cartSvc.Add(c.Request.Context(), cartdomain.AddItemRequest{
		Token:     strings.TrimSpace(req.Token),
		ProductID: strings.TrimSpace(req.ProductID),
		Quantity:  req.Quantity,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cart})
}

func (s *Server) ListCartItems(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))

	items, err := s.cartSvc.Items(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) EmptyCart(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))

	if err := s.cartSvc.Empty(c.Request.Context(), token); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"emptied": true}})
}
