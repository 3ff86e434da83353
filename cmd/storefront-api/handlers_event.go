package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/naveen1798kumar/acb-backend/internal/event"
	"github.com/naveen1798kumar/acb-backend/internal/product"
)

type eventRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Products    []string   `json:"products"`
	IsActive    *bool      `json:"isActive"`
}

// eventResponse embeds the linked product documents the way the
// storefront expects them.
type eventResponse struct {
	event.Event
	Products []product.Product `json:"products"`
}

func withProducts(c *gin.Context, products product.Repository, ev *event.Event) (*eventResponse, error) {
	linked, err := products.ListByIDs(c.Request.Context(), ev.ProductIDs)
	if err != nil {
		return nil, err
	}
	if linked == nil {
		linked = []product.Product{}
	}
	return &eventResponse{Event: *ev, Products: linked}, nil
}

func listEventsHandler(repo event.Repository, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch events"})
			return
		}
		out := make([]eventResponse, 0, len(events))
		for i := range events {
			resp, err := withProducts(c, products, &events[i])
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch events"})
				return
			}
			out = append(out, *resp)
		}
		c.JSON(http.StatusOK, out)
	}
}

func getEventHandler(repo event.Repository, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ev, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if errors.Is(err, event.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch event"})
			return
		}
		resp, err := withProducts(c, products, ev)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch event"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func createEventHandler(repo event.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req eventRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Event name is required"})
			return
		}
		ev := &event.Event{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Description: req.Description,
			Image:       req.Image,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			ProductIDs:  req.Products,
			IsActive:    true,
		}
		if ev.ProductIDs == nil {
			ev.ProductIDs = []string{}
		}
		if req.IsActive != nil {
			ev.IsActive = *req.IsActive
		}
		if err := repo.Create(c.Request.Context(), ev); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to create event"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Event created", "event": ev})
	}
}

func updateEventHandler(repo event.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req eventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json body"})
			return
		}
		ev, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if errors.Is(err, event.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch event"})
			return
		}
		ev.Name = req.Name
		ev.Description = req.Description
		ev.Image = req.Image
		ev.StartDate = req.StartDate
		ev.EndDate = req.EndDate
		if req.Products != nil {
			ev.ProductIDs = req.Products
		}
		if req.IsActive != nil {
			ev.IsActive = *req.IsActive
		}
		if err := repo.Update(c.Request.Context(), ev); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update event"})
			return
		}
		updated, err := repo.GetByID(c.Request.Context(), ev.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update event"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Event updated", "event": updated})
	}
}

func deleteEventHandler(repo event.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete event"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
	}
}
