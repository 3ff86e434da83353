package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/naveen1798kumar/acb-backend/internal/config"
	"github.com/naveen1798kumar/acb-backend/internal/httpx"
	"github.com/naveen1798kumar/acb-backend/internal/mail"
	"github.com/naveen1798kumar/acb-backend/internal/user"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

func registerHandler(repo user.Repository, auth *httpx.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json body"})
			return
		}
		if req.Name == "" || req.Mobile == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Name and mobile required"})
			return
		}
		if len(req.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password is required and must be >= 6 characters"})
			return
		}

		hash, err := user.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		u := &user.User{
			ID:           uuid.NewString(),
			Name:         req.Name,
			Email:        req.Email,
			Mobile:       req.Mobile,
			PasswordHash: hash,
			Role:         user.RoleUser,
		}
		if err := repo.Create(c.Request.Context(), u); err != nil {
			if errors.Is(err, user.ErrAlreadyExist) {
				c.JSON(http.StatusConflict, gin.H{"message": "email or mobile already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		token, err := auth.IssueToken(u.ID, u.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "user": u})
	}
}

type loginRequest struct {
	// Mobile carries either the mobile number or the email; the login
	// form has a single identifier field.
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

func loginHandler(repo user.Repository, auth *httpx.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Mobile == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "identifier and password required"})
			return
		}
		u, err := repo.GetByIdentifier(c.Request.Context(), req.Mobile)
		if err != nil && !errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		if err != nil || !user.CheckPassword(u.PasswordHash, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		token, err := auth.IssueToken(u.ID, u.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": u})
	}
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func adminLoginHandler(cfg config.Config, auth *httpx.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req adminLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json body"})
			return
		}
		if cfg.AdminEmail == "" || req.Email != cfg.AdminEmail || req.Password != cfg.AdminPassword {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid admin credentials."})
			return
		}
		token, err := auth.IssueToken("admin:"+req.Email, httpx.RoleAdmin)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Admin login successful", "token": token})
	}
}

func getProfileHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := repo.GetByID(c.Request.Context(), httpx.UserID(c))
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
	}
}

type updateProfileRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

func updateProfileHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json body"})
			return
		}
		id := httpx.UserID(c)
		if err := repo.UpdateProfile(c.Request.Context(), &user.User{
			ID: id, Name: req.Name, Email: req.Email, Mobile: req.Mobile,
		}); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		u, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Updated", "user": u})
	}
}

func listUsersHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch users."})
			return
		}
		if users == nil {
			users = []user.User{}
		}
		c.JSON(http.StatusOK, users)
	}
}

func forgotPasswordHandler(repo user.Repository, mailer mail.Mailer, frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
			return
		}
		u, err := repo.GetByEmail(c.Request.Context(), req.Email)
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No user found with that email"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error sending reset email"})
			return
		}

		buf := make([]byte, 20)
		if _, err := rand.Read(buf); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error sending reset email"})
			return
		}
		token := hex.EncodeToString(buf)
		if err := repo.SetResetToken(c.Request.Context(), u.ID, token, time.Now().Add(15*time.Minute)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error sending reset email"})
			return
		}

		link := frontendURL + "/reset-password/" + token
		html := fmt.Sprintf(`<h2>Password Reset Request</h2>
<p>Click the link below to reset your password:</p>
<a href=%q target="_blank">%s</a>
<p>This link expires in 15 minutes.</p>`, link, link)
		if err := mailer.Send(c.Request.Context(), u.Email, "Reset Your Password - ACB Bakery", html); err != nil {
			log.Printf("[auth] reset mail to %s failed: %v", u.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error sending reset email"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset link sent to your email"})
	}
}

func resetPasswordHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Password string `json:"password"`
		}
		token := c.Param("token")
		if err := c.ShouldBindJSON(&req); err != nil || token == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Token and new password required"})
			return
		}
		if len(req.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be >= 6 characters"})
			return
		}
		u, err := repo.GetByResetToken(c.Request.Context(), token)
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired reset link"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error resetting password"})
			return
		}
		hash, err := user.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error resetting password"})
			return
		}
		if err := repo.SetPassword(c.Request.Context(), u.ID, hash); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error resetting password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password has been reset successfully"})
	}
}
