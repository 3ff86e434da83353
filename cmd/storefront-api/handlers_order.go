package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/naveen1798kumar/acb-backend/internal/order"
)

// createOrderHandler takes a checkout payload and persists the order with
// paymentStatus=pending. Totals are recomputed server-side from the line
// items; a client total that disagrees is rejected rather than stored.
func createOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json body"})
			return
		}
		if len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Order items required"})
			return
		}

		method := req.PaymentMethod
		if method == "" {
			method = order.MethodUPI
		}
		if !order.ValidPaymentMethod(method) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payment method"})
			return
		}

		oid := uuid.NewString()
		subtotal := decimal.Zero
		items := make([]order.Item, 0, len(req.Items))
		for _, it := range req.Items {
			if it.ProductID == "" || it.Qty <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "each item needs a productId and a positive qty"})
				return
			}
			price, err := decimal.NewFromString(it.Price)
			if err != nil || price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item price"})
				return
			}
			subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(it.Qty))))
			items = append(items, order.Item{
				ID:           uuid.NewString(),
				OrderID:      oid,
				ProductID:    it.ProductID,
				Name:         it.Name,
				Image:        it.Image,
				VariantLabel: it.VariantLabel,
				Price:        price.String(),
				Qty:          it.Qty,
			})
		}

		shipping := decimal.Zero
		if req.Shipping != "" {
			s, err := decimal.NewFromString(req.Shipping)
			if err != nil || s.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid shipping amount"})
				return
			}
			shipping = s
		}
		total := subtotal.Add(shipping)

		if req.Total != "" {
			claimed, err := decimal.NewFromString(req.Total)
			if err != nil || !claimed.Equal(total) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "order total does not match items"})
				return
			}
		}

		o := &order.Order{
			ID:            oid,
			Subtotal:      subtotal.String(),
			Shipping:      shipping.String(),
			Total:         total.String(),
			Currency:      "INR",
			Customer:      req.Customer,
			PaymentMethod: method,
			PaymentStatus: order.PaymentPending,
			Status:        order.StatusCreated,
			UserID:        req.UserID,
			Notes:         req.Notes,
		}
		if err := repo.Create(c.Request.Context(), o, items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order"})
			return
		}
		o.Items = items
		c.JSON(http.StatusCreated, o)
	}
}

func listOrdersHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		orders, err := repo.List(c.Request.Context(), limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
			return
		}
		if orders == nil {
			orders = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func listOrdersByUserHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		orders, err := repo.ListByUser(c.Request.Context(), c.Param("userId"), limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
			return
		}
		if orders == nil {
			orders = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func getOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func updateOrderStatusHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || !order.ValidStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid status"})
			return
		}
		if err := repo.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
			if errors.Is(err, order.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order"})
			return
		}
		o, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order updated", "order": o})
	}
}

// setPaymentStatusHandler is the admin override for settlements the
// gateway never sees (COD, direct UPI transfer). Marking an order paid
// cascades its fulfillment status to confirmed, same as a verified
// callback.
func setPaymentStatusHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.SetPaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || !order.ValidPaymentStatus(req.PaymentStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payment status"})
			return
		}

		o, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update payment status"})
			return
		}
		status := o.Status
		if req.PaymentStatus == order.PaymentPaid && status == order.StatusCreated {
			status = order.StatusConfirmed
		}
		updated, err := repo.SetPaymentOutcome(c.Request.Context(), o.ID, req.PaymentStatus, status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update payment status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated", "order": updated})
	}
}
