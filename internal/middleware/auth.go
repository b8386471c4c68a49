package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zentrixai8-sys/checklist-sub001/internal/model"
	"github.com/zentrixai8-sys/checklist-sub001/internal/service"
)

const viewerContextKey = "viewer"

// Auth validates the bearer token and stores the resulting viewer on the
// request context. Requests without a known viewer never reach a data
// handler.
func Auth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := authService.ValidateAccessToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(viewerContextKey, model.Viewer{Identity: claims.Identity, Role: claims.Role})
		c.Next()
	}
}

// GetViewer returns the authenticated viewer, or a zero viewer when the
// request never passed the Auth middleware.
func GetViewer(c *gin.Context) model.Viewer {
	v, ok := c.Get(viewerContextKey)
	if !ok {
		return model.Viewer{}
	}
	viewer, ok := v.(model.Viewer)
	if !ok {
		return model.Viewer{}
	}
	return viewer
}
