package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/speakwell-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

// AttachTraceContext stamps trace and request ids on the request and, once the chain has run,
// tags the server span with the authenticated teacher and the route's resource id.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.New().String()
		}
		span := trace.SpanFromContext(c.Request.Context())
		traceID := strings.TrimSpace(c.GetHeader(headerTraceID))
		if traceID == "" && span.SpanContext().HasTraceID() {
			traceID = span.SpanContext().TraceID().String()
		}
		if traceID == "" {
			traceID = uuid.New().String()
		}
		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set("trace_id", traceID)
		c.Set("request_id", reqID)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Writer.Header().Set(headerRequestID, reqID)
		span.SetAttributes(attribute.String("request_id", reqID))

		c.Next()

		// Auth replaces c.Request further down the chain; read identity from the final request.
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil && rd.TeacherID != uuid.Nil {
			span.SetAttributes(attribute.String("teacher_id", rd.TeacherID.String()))
		}
		if key, id := routeResource(c); key != "" {
			span.SetAttributes(attribute.String(key, id))
		}
	}
}

// routeResource names the :id path param after the resource the route addresses.
func routeResource(c *gin.Context) (string, string) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return "", ""
	}
	route := c.FullPath()
	switch {
	case strings.HasPrefix(route, "/api/assignments/"):
		return "assignment_id", id
	case strings.HasPrefix(route, "/api/assignment-contents/"), strings.HasPrefix(route, "/api/templates/"):
		return "content_id", id
	}
	return "", ""
}
