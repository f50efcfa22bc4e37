package api

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/service"
	"github.com/nitesh-dev/gymmora-sub000/internal/telemetry/metrics"
	"github.com/nitesh-dev/gymmora-sub000/internal/workout"
)

// Constants for context keys
const (
	ContextOwnerIDKey = "ownerID"
)

// jwtClaims defines the structure we expect in the JWT payload.
// Mirroring the structure used in authService.IssueToken
type jwtClaims struct {
	OwnerID string `json:"uid"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT authentication. The uid
// claim becomes the owner every request is scoped to.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}

		if !token.Valid || strings.TrimSpace(claims.OwnerID) == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextOwnerIDKey, claims.OwnerID)
		c.Next()
	}
}

// RequestMetrics counts requests and observes their latency by route.
func RequestMetrics(metricsManager *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsManager.CounterRequests.With(prometheus.Labels{
			"method": c.Request.Method,
			"status": status,
		}).Inc()
		metricsManager.HistogramRequestDuration.WithLabelValues(route, c.Request.Method, status).
			Observe(time.Since(begin).Seconds())
	}
}

// PanicRecovery turns a handler panic into a 500 and counts it.
func PanicRecovery(metricsManager *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("http: panic serving %s: %v\n%s", c.Request.URL.Path, r, debug.Stack())
				if metricsManager != nil {
					metricsManager.CounterHandlePanic.Inc()
				}
				abortWithError(c, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// respondWithError maps service errors onto status codes. Validation errors
// carry every problem found.
func respondWithError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "problems": ve.Problems})
	case domain.IsNotFound(err):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, workout.ErrInvalidState):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNoArchiveTarget):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		abortWithError(c, http.StatusInternalServerError, "Internal Server Error")
	}
}

// Helper function to get the owner ID from context (used by handlers)
func getOwnerIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextOwnerIDKey)
	if !exists {
		return "", errors.New("owner ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return "", errors.New("invalid owner ID type in context")
	}
	return idStr, nil
}

// mustOwner aborts with 401 when no owner is attached to the request.
func mustOwner(c *gin.Context) (string, bool) {
	ownerID, err := getOwnerIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return "", false
	}
	return ownerID, true
}
