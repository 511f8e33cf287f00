package handlers

import (
	"github.com/gin-gonic/gin"

	"coopledger/internal/domain/members"
	"coopledger/internal/infrastructure/http/v1/dto"
)

// MembersHandler lists cooperative members.
type MembersHandler struct {
	*BaseHandler
	members *members.Service
}

// NewMembersHandler creates a new members handler.
func NewMembersHandler(base *BaseHandler, svc *members.Service) *MembersHandler {
	return &MembersHandler{BaseHandler: base, members: svc}
}

// List handles GET /members.
func (h *MembersHandler) List(c *gin.Context) {
	all, err := h.members.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(all))
}
