package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/speakwell-backend/internal/http/response"
	"github.com/yungbote/speakwell-backend/internal/platform/authtoken"
	"github.com/yungbote/speakwell-backend/internal/platform/ctxutil"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

type AuthMiddleware struct {
	log      *logger.Logger
	verifier *authtoken.Verifier
}

func NewAuthMiddleware(log *logger.Logger, verifier *authtoken.Verifier) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, verifier: verifier}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			return
		}
		id, err := am.verifier.Verify(tokenString)
		if errors.Is(err, authtoken.ErrNotTeacher) {
			response.RespondError(c, http.StatusForbidden, "forbidden", err)
			return
		}
		if err != nil {
			am.log.Debug("token rejected", "error", err)
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			return
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			TeacherID: id.TeacherID,
			Role:      id.Role,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
