package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/naveen1798kumar/acb-backend/internal/payment"
)

// createPaymentHandler establishes a Razorpay payment attempt against an
// order. The amount in the request body is advisory; the engine charges
// the order's own total.
//
// @Summary  Create a payment attempt for an order
// @Accept   json
// @Produce  json
// @Param    body body payment.CreateRequest true "order and customer info"
// @Success  201 {object} map[string]any
// @Failure  400 {object} product.HTTPError
// @Failure  404 {object} product.HTTPError
// @Router   /payments/create [post]
func createPaymentHandler(engine *payment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req payment.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json body"})
			return
		}

		res, err := engine.CreatePayment(c.Request.Context(), req)
		switch {
		case err == nil:
		case errors.Is(err, payment.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Order ID and amount are required"})
			return
		case errors.Is(err, payment.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found for payment"})
			return
		case errors.Is(err, payment.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Order total must be greater than 0"})
			return
		case errors.Is(err, payment.ErrGatewayUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to create Razorpay payment"})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create Razorpay payment"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success":         true,
			"razorpayOrderId": res.GatewayOrderID,
			"amount":          res.AmountPaise, // paise, for the checkout widget
			"currency":        res.Currency,
			"key":             res.KeyID,
			"paymentMethods":  payment.PaymentMethods,
			"paymentLink":     res.PaymentLink,
		})
	}
}

// verifyPaymentHandler authenticates a gateway callback and settles the
// payment and its order.
//
// @Summary  Verify a Razorpay callback signature
// @Accept   json
// @Produce  json
// @Param    body body payment.VerifyRequest true "callback payload"
// @Success  200 {object} map[string]any
// @Failure  400 {object} map[string]any
// @Failure  404 {object} map[string]any
// @Router   /payments/verify [post]
func verifyPaymentHandler(engine *payment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req payment.VerifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid json body"})
			return
		}

		res, err := engine.VerifyCallback(c.Request.Context(), req)
		switch {
		case err == nil:
		case errors.Is(err, payment.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing Razorpay parameters"})
			return
		case errors.Is(err, payment.ErrInvalidSignature):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid signature"})
			return
		case errors.Is(err, payment.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment record not found for this Razorpay order"})
			return
		case errors.Is(err, payment.ErrAlreadyResolved):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Payment already resolved in another state"})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment verification failed"})
			return
		}

		body := gin.H{
			"success": true,
			"message": "Payment verified successfully",
			"payment": res.Payment,
			"order":   nil,
		}
		if res.OrderUpdated {
			body["order"] = res.Order
		} else {
			body["message"] = "Payment verified; order record could not be updated"
		}
		c.JSON(http.StatusOK, body)
	}
}
