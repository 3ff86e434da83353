package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/naveen1798kumar/acb-backend/internal/httpx"
	"github.com/naveen1798kumar/acb-backend/internal/product"
	"github.com/naveen1798kumar/acb-backend/internal/user"
)

type cartLine struct {
	Product product.Product `json:"product"`
	Qty     int             `json:"qty"`
}

func getCartHandler(carts user.CartStore, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		items, err := carts.List(ctx, httpx.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
			return
		}

		ids := make([]string, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ProductID)
		}
		byID := map[string]product.Product{}
		if len(ids) > 0 {
			prods, err := products.ListByIDs(ctx, ids)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
				return
			}
			for _, p := range prods {
				byID[p.ID] = p
			}
		}

		// Products deleted since they were carted are skipped.
		lines := make([]cartLine, 0, len(items))
		for _, it := range items {
			p, ok := byID[it.ProductID]
			if !ok {
				continue
			}
			lines = append(lines, cartLine{Product: p, Qty: it.Qty})
		}
		c.JSON(http.StatusOK, gin.H{"items": lines})
	}
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

func addToCartHandler(carts user.CartStore, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "productId is required"})
			return
		}
		if req.Qty <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "qty must be greater than 0"})
			return
		}
		if _, err := products.GetByID(c.Request.Context(), req.ProductID); err != nil {
			if errors.Is(err, product.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update cart"})
			return
		}
		if err := carts.Set(c.Request.Context(), httpx.UserID(c), req.ProductID, req.Qty); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func removeFromCartHandler(carts user.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.Remove(c.Request.Context(), httpx.UserID(c), c.Param("productId")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
