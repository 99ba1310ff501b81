package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/logger"
	"github.com/morgancollado/mocingbird-task-manager/internal/repos"
	"github.com/morgancollado/mocingbird-task-manager/internal/requestdata"
	"github.com/morgancollado/mocingbird-task-manager/internal/services"
)

type AuthMiddleware struct {
	log      *logger.Logger
	tokens   services.TokenService
	userRepo repos.UserRepo
}

func NewAuthMiddleware(baseLog *logger.Logger, tokens services.TokenService, userRepo repos.UserRepo) *AuthMiddleware {
	middlewareLog := baseLog.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLog, tokens: tokens, userRepo: userRepo}
}

// RequireAuth resolves the bearer credential into a request principal. An
// expired token, a forged token, and a token for a deleted account all answer
// identically; only a missing credential is reported separately.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}

		claim, err := am.tokens.Verify(tokenString)
		if err != nil {
			am.log.Debug("Token verification failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		users, err := am.userRepo.GetByIDs(c.Request.Context(), nil, []uuid.UUID{claim.UserID})
		if err != nil {
			am.log.Warn("Principal lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if len(users) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ctx := requestdata.WithPrincipal(c.Request.Context(), &requestdata.Principal{UserID: claim.UserID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// extractBearerToken splits the header on a plain space and takes the final
// segment, so "Bearer <token>" and a bare "<token>" both work.
func extractBearerToken(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	return parts[len(parts)-1]
}
