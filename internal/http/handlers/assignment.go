package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/speakwell-backend/internal/http/response"
	"github.com/yungbote/speakwell-backend/internal/services"
)

type AssignmentHandler struct {
	assignments services.AssignmentService
	ledger      services.ProgressLedger
}

func NewAssignmentHandler(assignments services.AssignmentService, ledger services.ProgressLedger) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, ledger: ledger}
}

type createAssignmentRequest struct {
	ClassroomID        uuid.UUID   `json:"classroom_id"`
	TemplateContentIDs []uuid.UUID `json:"template_content_ids"`
	StudentIDs         []uuid.UUID `json:"student_ids"`
	Title              string      `json:"title"`
	DueDate            *time.Time  `json:"due_date"`
}

// POST /api/assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	tid, ok := teacherID(c)
	if !ok {
		return
	}
	var req createAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.assignments.CreateAssignment(c.Request.Context(), services.CreateAssignmentInput{
		TeacherID:          tid,
		ClassroomID:        req.ClassroomID,
		TemplateContentIDs: req.TemplateContentIDs,
		StudentIDs:         req.StudentIDs,
		Title:              req.Title,
		DueDate:            req.DueDate,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"assignment": res})
}

// DELETE /api/assignments/:id
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	tid, ok := teacherID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.assignments.DeleteAssignment(c.Request.Context(), tid, id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"teardown": res})
}

// GET /api/assignments/:id/progress
func (h *AssignmentHandler) GetProgress(c *gin.Context) {
	tid, ok := teacherID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sum, err := h.ledger.AssignmentSummary(c.Request.Context(), tid, id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": sum})
}
