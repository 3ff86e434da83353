package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/naveen1798kumar/acb-backend/internal/category"
)

func listCategoriesHandler(repo category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		if categories == nil {
			categories = []category.Category{}
		}
		c.JSON(http.StatusOK, categories)
	}
}

type categoryRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

func createCategoryHandler(repo category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Category name is required"})
			return
		}
		cat := &category.Category{
			ID:            uuid.NewString(),
			Name:          strings.TrimSpace(req.Name),
			Image:         req.Image,
			Subcategories: []string{},
		}
		if err := repo.Create(c.Request.Context(), cat); err != nil {
			if errors.Is(err, category.ErrAlreadyExists) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Category already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create category"})
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

func updateCategoryHandler(repo category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json body"})
			return
		}
		cat, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if errors.Is(err, category.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		if req.Name != "" {
			cat.Name = strings.TrimSpace(req.Name)
		}
		if req.Image != "" {
			cat.Image = req.Image
		}
		if err := repo.Update(c.Request.Context(), cat); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update category"})
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

func deleteCategoryHandler(repo category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		ok, err := repo.Delete(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete category"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully", "id": id})
	}
}

func addSubcategoryHandler(repo category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Subcategory name is required"})
			return
		}
		name := strings.TrimSpace(req.Name)

		cat, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if errors.Is(err, category.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		for _, sc := range cat.Subcategories {
			if sc == name {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Subcategory already exists"})
				return
			}
		}
		cat.Subcategories = append(cat.Subcategories, name)
		if err := repo.Update(c.Request.Context(), cat); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add subcategory"})
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

func deleteSubcategoryHandler(repo category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cat, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if errors.Is(err, category.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		name := c.Param("name")
		kept := cat.Subcategories[:0]
		for _, sc := range cat.Subcategories {
			if sc != name {
				kept = append(kept, sc)
			}
		}
		cat.Subcategories = kept
		if err := repo.Update(c.Request.Context(), cat); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete subcategory"})
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}
