package httpx

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ctxUserID = "userID"
	ctxRole   = "role"
)

var ErrNoToken = errors.New("token missing")

// Auth issues and validates the HS256 bearer tokens used by every
// protected route. The secret comes from config, never hardcoded.
type Auth struct {
	secret []byte
	ttl    time.Duration
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret), ttl: 7 * 24 * time.Hour}
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (a *Auth) IssueToken(userID, role string) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	})
	return tok.SignedString(a.secret)
}

func (a *Auth) parse(tokenString string) (*claims, error) {
	cl := &claims{}
	tok, err := jwt.ParseWithClaims(tokenString, cl, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return cl, nil
}

func bearerToken(c *gin.Context) (string, error) {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer "), nil
	}
	if t, err := c.Cookie("token"); err == nil && t != "" {
		return t, nil
	}
	return "", ErrNoToken
}

// Protect requires a valid token and stores userID/role on the context.
func (a *Auth) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := bearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"message": "Not authorized, token missing"})
			return
		}
		cl, err := a.parse(t)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"message": "Invalid or expired token"})
			return
		}
		c.Set(ctxUserID, cl.Subject)
		c.Set(ctxRole, cl.Role)
		c.Next()
	}
}

// ProtectAdmin additionally requires the admin role.
func (a *Auth) ProtectAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := bearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"message": "Not authorized, token missing"})
			return
		}
		cl, err := a.parse(t)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"message": "Invalid or expired token"})
			return
		}
		if cl.Role != RoleAdmin {
			c.AbortWithStatusJSON(403, gin.H{"message": "Admin access required"})
			return
		}
		c.Set(ctxUserID, cl.Subject)
		c.Set(ctxRole, cl.Role)
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	v, _ := c.Get(ctxUserID)
	s, _ := v.(string)
	return s
}
