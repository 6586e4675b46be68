package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/speakwell-backend/internal/http/response"
	"github.com/yungbote/speakwell-backend/internal/platform/apierr"
	"github.com/yungbote/speakwell-backend/internal/platform/ctxutil"
)

// teacherID reads the authenticated teacher. It writes a 401 and returns false when absent.
func teacherID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.TeacherID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
		return uuid.Nil, false
	}
	return rd.TeacherID, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		response.RespondAPIError(c, apierr.Validation("invalid %s %q", name, c.Param(name)))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondAPIError(c, apierr.Validation("invalid request body: %v", err))
		return false
	}
	return true
}
