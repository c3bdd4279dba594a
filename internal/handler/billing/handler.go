package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/ehr-api/internal/handler"
	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/service/billing"
)

type Handler struct {
	service *billing.Service
}

func NewHandler(service *billing.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	bills := rg.Group("/billing")
	{
		bills.POST("/invoices", h.CreateInvoice)
		bills.POST("/payments", h.RecordPayment)
	}
}

func (h *Handler) CreateInvoice(c *gin.Context) {
	claims, ok := handler.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	invoice, err := h.service.CreateInvoice(c.Request.Context(), claims, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(invoice))
}

func (h *Handler) RecordPayment(c *gin.Context) {
	claims, ok := handler.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	payment, err := h.service.RecordPayment(c.Request.Context(), claims, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(payment))
}
