// Authentication middleware
// Checks for a valid session token in the Authorization header or the auth
// cookie. If valid, sets the principal in the context.
package routes

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"

	"equipment-logbook/internal/access"
	"equipment-logbook/internal/jwt"
)

const AUTH_COOKIE_NAME = "auth_token"

const (
	principalKey = "principal"
	claimsKey    = "claims"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Set authentication cookie
// The cookie is set to expire when the token expires
func setAuthCookie(c *gin.Context, token string, maxAge int) {
	secure := c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AUTH_COOKIE_NAME, token, maxAge, "/", "", secure, true)
}

func clearAuthCookie(c *gin.Context) {
	c.SetCookie(AUTH_COOKIE_NAME, "", -1, "/", "", false, true)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if token, err := c.Cookie(AUTH_COOKIE_NAME); err == nil {
		return token
	}
	return ""
}

// GetPrincipal returns the administrator authenticated for this request.
func GetPrincipal(c *gin.Context) (access.Principal, error) {
	v, exists := c.Get(principalKey)
	if !exists {
		return access.Principal{}, ErrNoPrincipal
	}
	p, ok := v.(access.Principal)
	if !ok {
		slog.Warn("GetPrincipal: Principal in context has unexpected type")
		return access.Principal{}, ErrNoPrincipal
	}
	return p, nil
}

// AuthMiddleware rejects requests without a live admin session.
func AuthMiddleware(issuer *jwt.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := issuer.Verify(c.Request.Context(), token)
		if err != nil {
			slog.Debug("AuthMiddleware: Invalid auth token", "error", err)
			switch {
			case errors.Is(err, jwtlib.ErrTokenExpired):
				AbortWithError(c, ErrTokenExpired)
			case errors.Is(err, jwt.ErrInvalidNonce):
				AbortWithError(c, err)
			default:
				AbortWithError(c, fmt.Errorf("%w: %v", ErrUnauthorized, err))
			}
			return
		}

		c.Set(claimsKey, claims)
		c.Set(principalKey, access.Principal{
			ID:       claims.Subject,
			Username: claims.Username,
			Fallback: claims.Fallback,
		})
		c.Next()
	}
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithHTTPError(c, http.StatusBadRequest, err, "Username and password are required", "INVALID_REQUEST")
		return
	}

	principal, err := s.Admins.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		slog.Warn("Failed login attempt", "username", req.Username, "ip", c.ClientIP())
		AbortWithError(c, err)
		return
	}

	token, claims, err := s.Issuer.Issue(c.Request.Context(), principal.ID, principal.Username, principal.Fallback)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	setAuthCookie(c, token, int(s.Issuer.TTL().Seconds()))

	slog.Info("Admin signed in", "username", principal.Username, "fallback", principal.Fallback)
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"username":  principal.Username,
		"expiresAt": claims.ExpiresAt.Time,
	})
}

func (s *Server) logout(c *gin.Context) {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*jwt.AdminClaim); ok {
			if err := s.Issuer.Revoke(c.Request.Context(), claims); err != nil {
				slog.Warn("Logout: Failed to revoke session", "error", err)
			}
		}
	}
	clearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) authStatus(c *gin.Context) {
	principal, err := GetPrincipal(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	res := gin.H{
		"status":   "authenticated",
		"username": principal.Username,
		"fallback": principal.Fallback,
	}
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*jwt.AdminClaim); ok && claims.ExpiresAt != nil {
			res["expiresAt"] = claims.ExpiresAt.Time
		}
	}
	c.JSON(http.StatusOK, res)
}
