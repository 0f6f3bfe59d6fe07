package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/admin"
	"expensetracker/internal/pagination"
)

// AdminHandler serves the read-only administration pages
type AdminHandler struct {
	registry *admin.Registry
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(registry *admin.Registry) *AdminHandler {
	return &AdminHandler{registry: registry}
}

// Index shows every registered entity with its row count
func (h *AdminHandler) Index(c *gin.Context) {
	summaries, err := h.registry.Counts()
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "admin_index.html", gin.H{"Title": "Administration", "Summaries": summaries})
}

// List shows one page of an entity's rows
func (h *AdminHandler) List(c *gin.Context) {
	var page pagination.PageRequest
	_ = c.ShouldBindQuery(&page)

	listing, err := h.registry.List(c.Param("entity"), page)
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "admin_list.html", gin.H{"Title": listing.Entity.Title, "Listing": listing})
}
