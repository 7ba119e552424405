package handler

import (
	"dcms/backend/internal/complaint"
	"dcms/backend/internal/models"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListComplaints(c *gin.Context) {
	list, err := h.Complaints.List(c.Request.Context(), currentCaller(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if list == nil {
		list = []models.Complaint{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateComplaint(c *gin.Context) {
	var in complaint.CreateInput
	if !h.bind(c, &in) {
		return
	}
	created, err := h.Complaints.Create(c.Request.Context(), currentCaller(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetComplaint(c *gin.Context) {
	id, ok := complaintID(c)
	if !ok {
		return
	}
	found, err := h.Complaints.Get(c.Request.Context(), currentCaller(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *Handler) ReplaceComplaint(c *gin.Context) { h.updateComplaint(c, false) }

func (h *Handler) PatchComplaint(c *gin.Context) { h.updateComplaint(c, true) }

func (h *Handler) updateComplaint(c *gin.Context, partial bool) {
	id, ok := complaintID(c)
	if !ok {
		return
	}
	// Unknown keys must reach the service intact.
	var changes complaint.Changes
	if err := json.NewDecoder(c.Request.Body).Decode(&changes); err != nil {
		badRequest(c, "request body must be a JSON object")
		return
	}
	if changes == nil {
		changes = complaint.Changes{}
	}

	updated, err := h.Complaints.Update(c.Request.Context(), currentCaller(c), id, changes, partial)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ComplaintTransitions lists where an admin could move the complaint next.
func (h *Handler) ComplaintTransitions(c *gin.Context) {
	id, ok := complaintID(c)
	if !ok {
		return
	}
	caller := currentCaller(c)
	found, err := h.Complaints.Get(c.Request.Context(), caller, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	next := []models.Status{}
	if caller.IsAdmin() {
		next = append(next, h.Complaints.AllowedTransitions(found)...)
	}
	c.JSON(http.StatusOK, gin.H{"status": found.Status, "allowed": next})
}

func (h *Handler) ComplaintSummary(c *gin.Context) {
	counts, err := h.Complaints.Summary(c.Request.Context(), currentCaller(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func complaintID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "detail": "complaint not found"})
		return 0, false
	}
	return uint(id), true
}
