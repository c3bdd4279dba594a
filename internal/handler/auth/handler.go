package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/ehr-api/internal/handler"
	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/service/auth"
	"github.com/clinicore/ehr-api/internal/service/identity"
)

type Handler struct {
	identitySvc *identity.Service
	authSvc     *auth.Service
}

func NewHandler(identitySvc *identity.Service, authSvc *auth.Service) *Handler {
	return &Handler{
		identitySvc: identitySvc,
		authSvc:     authSvc,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
	}
}

func (h *Handler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	identity, err := h.identitySvc.Signup(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(identity))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	token, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(token))
}
