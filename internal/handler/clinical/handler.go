package clinical

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/ehr-api/internal/handler"
	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/service/medical"
)

// Handler exposes the doctor-authored clinical record endpoints.
type Handler struct {
	service *medical.Service
}

func NewHandler(service *medical.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/prescriptions", h.Prescribe)
	rg.POST("/prescriptions/refill-requests", h.RequestRefill)
	rg.POST("/consultation-notes", h.AddConsultationNote)
	rg.POST("/diagnoses", h.AddDiagnosis)
	rg.POST("/test-results", h.OrderTest)
	rg.PUT("/test-results/:id", h.UpdateTestResult)
}

func (h *Handler) Prescribe(c *gin.Context) {
	claims, ok := handler.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.PrescribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	prescription, err := h.service.Prescribe(c.Request.Context(), claims, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(prescription))
}

func (h *Handler) RequestRefill(c *gin.Context) {
	claims, ok := handler.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.RefillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.RequestRefill(c.Request.Context(), claims, &req); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusAccepted, handler.NewSuccessResponse(gin.H{"acknowledged": true}))
}

func (h *Handler) AddConsultationNote(c *gin.Context) {
	claims, ok := handler.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.ConsultationNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	note, err := h.service.AddConsultationNote(c.Request.Context(), claims, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(note))
}

func (h *Handler) AddDiagnosis(c *gin.Context) {
	claims, ok := handler.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.DiagnosisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.AddDiagnosis(c.Request.Context(), claims, &req); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusAccepted, handler.NewSuccessResponse(gin.H{"acknowledged": true}))
}

func (h *Handler) OrderTest(c *gin.Context) {
	claims, ok := handler.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.OrderTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.OrderTest(c.Request.Context(), claims, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(result))
}

func (h *Handler) UpdateTestResult(c *gin.Context) {
	claims, ok := handler.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid test result ID"))
		return
	}

	var req model.UpdateTestResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.UpdateTestResult(c.Request.Context(), claims, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}
