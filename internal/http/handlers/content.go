package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/speakwell-backend/internal/http/response"
	"github.com/yungbote/speakwell-backend/internal/services"
)

type ContentHandler struct {
	edits services.ContentEditService
}

func NewContentHandler(edits services.ContentEditService) *ContentHandler {
	return &ContentHandler{edits: edits}
}

// body: { "items": [{ "text": "...", "translation": "...", "audio_ref": "...", "metadata": {} }], "expected_version": 3 }
type contentEditRequest struct {
	Items           []services.EditItem `json:"items"`
	ExpectedVersion *int                `json:"expected_version"`
}

// PUT /api/assignment-contents/:id/items
func (h *ContentHandler) UpdateAssignmentContent(c *gin.Context) {
	h.edit(c, h.edits.ApplyContentEdit)
}

// PUT /api/templates/:id/items
func (h *ContentHandler) ReplaceTemplateItems(c *gin.Context) {
	h.edit(c, h.edits.ReplaceTemplateItems)
}

func (h *ContentHandler) edit(c *gin.Context, apply func(ctx context.Context, in services.ContentEditInput) (*services.ContentEditResult, error)) {
	tid, ok := teacherID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req contentEditRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := apply(c.Request.Context(), services.ContentEditInput{
		TeacherID:       tid,
		ContentID:       id,
		Items:           req.Items,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"content": res})
}
