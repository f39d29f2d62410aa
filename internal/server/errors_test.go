package server

import (
	"net/http"
	"testing"

	cartdomain "github.com/openmerchant/paygate/internal/cart/domain"
	checkoutdomain "github.com/openmerchant/paygate/internal/checkout/domain"
	orderdomain "github.com/openmerchant/paygate/internal/order/domain"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"nil", nil, http.StatusInternalServerError, "internal_error"},
		{"order not found", orderdomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"cart not found", cartdomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"invalid status", orderdomain.ErrInvalidStatus, http.StatusBadRequest, "validation_error"},
		{"invalid quantity", cartdomain.ErrInvalidQuantity, http.StatusBadRequest, "validation_error"},
		{"unknown gateway", checkoutdomain.ErrGatewayNotFound, http.StatusBadRequest, "validation_error"},
		{"disabled gateway", checkoutdomain.ErrGatewayDisabled, http.StatusConflict, "gateway_disabled"},
		{"payment failed", checkoutdomain.ErrPaymentFailed, http.StatusBadGateway, "payment_failed"},
		{"unclassified", ErrInternal, http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			require.Equal(t, tc.wantStatus, status)
			require.Equal(t, tc.wantType, payload.Type)
		})
	}
}

func TestValidationErrorFields(t *testing.T) {
	status, payload := mapError(newValidationError("card_number", "required", "Please add your card number"))
	require.Equal(t, http.StatusBadRequest, status)
	require.Len(t, payload.Errors, 1)
	require.Equal(t, "card_number", payload.Errors[0].Field)
	require.Equal(t, "Please add your card number", payload.Errors[0].Message)
}
