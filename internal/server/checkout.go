package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	checkoutdomain "github.com/openmerchant/paygate/internal/checkout/domain"
)

func (s *Server) ListGateways(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.checkoutSvc.Gateways(c.Request.Context())})
}

type validateCheckoutRequest struct {
	Submission checkoutdomain.Submission `json:"submission"`
}

func (s *Server) ValidateCheckout(c *gin.Context) {
	var req validateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	notices := s.checkoutSvc.Validate(c.Request.Context(), req.Submission)
	if len(notices) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"result":  "failure",
			"notices": notices,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "success"})
}

// Checkout runs the full flow. The success payload carries result and
// redirect at the top level, which is what the storefront acts on.
func (s *Server) Checkout(c *gin.Context) {
	var req checkoutdomain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, notices, err := s.checkoutSvc.Checkout(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, checkoutdomain.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{
				"result":  "failure",
				"notices": notices,
			})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
