package identity

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/ehr-api/internal/handler"
	"github.com/clinicore/ehr-api/internal/service/identity"
)

// Handler exposes the admin-only identity management endpoints.
type Handler struct {
	service *identity.Service
}

func NewHandler(service *identity.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/identities/:id", h.Get)
	rg.DELETE("/identities/:id", h.Delete)
}

func (h *Handler) Get(c *gin.Context) {
	claims, ok := handler.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid identity ID"))
		return
	}

	identity, err := h.service.Get(c.Request.Context(), claims, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(identity))
}

func (h *Handler) Delete(c *gin.Context) {
	claims, ok := handler.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid identity ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims, id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": true}))
}
