package httpapi

import (
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const accountIDKey = "accountID"

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(cn *gin.Context) {
		start := time.Now()
		cn.Next()
		logger.Info("http_request",
			zap.String("method", cn.Request.Method),
			zap.String("path", cn.Request.URL.Path),
			zap.Int("status", cn.Writer.Status()),
			zap.String("ip", cn.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func cors(corsOrigin string) gin.HandlerFunc {
	return func(cn *gin.Context) {
		origin := cn.GetHeader("Origin")
		cn.Writer.Header().Set("Vary", "Origin")
		cn.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Account-ID")
		cn.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		cn.Writer.Header().Set("Access-Control-Max-Age", "86400")
		if corsOrigin == "*" {
			cn.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" && origin == corsOrigin {
			cn.Writer.Header().Set("Access-Control-Allow-Origin", corsOrigin)
		}
		if cn.Request.Method == http.MethodOptions {
			cn.AbortWithStatus(http.StatusNoContent)
			return
		}
		cn.Next()
	}
}

// tokenAuth validates the bearer token on every API request.
// If the token is missing or invalid, it aborts with 401.
func tokenAuth(validToken string) gin.HandlerFunc {
	return func(cn *gin.Context) {
		header := cn.GetHeader("Authorization")
		if header == "" {
			cn.AbortWithStatusJSON(http.StatusUnauthorized,
				apiError{Code: "unauthorized", Message: "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token != validToken {
			cn.AbortWithStatusJSON(http.StatusUnauthorized,
				apiError{Code: "unauthorized", Message: "invalid token"})
			return
		}

		cn.Next()
	}
}

// requireAccount resolves the acting account from the X-Account-ID header.
// Registration and session handling live outside this service.
func requireAccount() gin.HandlerFunc {
	return func(cn *gin.Context) {
		raw := cn.GetHeader("X-Account-ID")
		if raw == "" {
			cn.AbortWithStatusJSON(http.StatusUnauthorized,
				apiError{Code: "unauthorized", Message: "missing X-Account-ID header"})
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			cn.AbortWithStatusJSON(http.StatusBadRequest,
				apiError{Code: "bad_request", Message: "invalid X-Account-ID header"})
			return
		}

		cn.Set(accountIDKey, id)
		cn.Next()
	}
}

func accountID(cn *gin.Context) uuid.UUID {
	return cn.MustGet(accountIDKey).(uuid.UUID)
}
