package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/naveen1798kumar/acb-backend/internal/product"
)

func validVariants(variants []product.Variant) bool {
	for _, v := range variants {
		if v.Label == "" || v.Stock < 0 {
			return false
		}
		price, err := decimal.NewFromString(v.Price)
		if err != nil || price.IsNegative() {
			return false
		}
	}
	return true
}

// @Summary  List products
// @Produce  json
// @Param    q query string false "search text"
// @Param    category query string false "category filter"
// @Success  200 {array} product.Product
// @Router   /products [get]
func listProductsHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		products, err := repo.List(c.Request.Context(), product.Query{
			Q:        c.Query("q"),
			Category: c.Query("category"),
			Limit:    limit,
			Offset:   offset,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		if products == nil {
			products = []product.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

func topSellingHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := repo.ListTopSelling(c.Request.Context(), 10)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		if products == nil {
			products = []product.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

func getProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func createProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json body"})
			return
		}
		if req.Name == "" || req.Category == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "name and category are required"})
			return
		}
		if !validVariants(req.Variants) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid variants"})
			return
		}

		p := &product.Product{
			ID:           uuid.NewString(),
			Name:         req.Name,
			Category:     req.Category,
			Subcategory:  req.Subcategory,
			Description:  req.Description,
			Image:        req.Image,
			IsTopSelling: req.IsTopSelling,
			Featured:     req.Featured,
			Variants:     req.Variants,
		}
		// Products join an event only through the Special Events category.
		if req.Category == "Special Events" {
			p.EventID = req.EventID
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "product": p})
	}
}

func updateProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json body"})
			return
		}
		if req.Variants != nil && !validVariants(req.Variants) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid variants"})
			return
		}

		existing, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while updating product"})
			return
		}

		p := &product.Product{
			ID:          existing.ID,
			Name:        req.Name,
			Category:    req.Category,
			Subcategory: req.Subcategory,
			Description: req.Description,
			Image:       req.Image,
			EventID:     req.EventID,
			Variants:    req.Variants,
		}
		updateFlags := req.IsTopSelling != nil || req.Featured != nil
		p.IsTopSelling = existing.IsTopSelling
		p.Featured = existing.Featured
		if req.IsTopSelling != nil {
			p.IsTopSelling = *req.IsTopSelling
		}
		if req.Featured != nil {
			p.Featured = *req.Featured
		}
		if err := repo.Update(c.Request.Context(), p, updateFlags); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while updating product"})
			return
		}
		updated, err := repo.GetByID(c.Request.Context(), existing.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while updating product"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete product"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
