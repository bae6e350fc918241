package hospital

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/resqlink/dispatch-api/internal/handler"
	"github.com/resqlink/dispatch-api/internal/model"
	"github.com/resqlink/dispatch-api/internal/service/hospital"
	"github.com/resqlink/dispatch-api/pkg/validator"
)

type Handler struct {
	service  *hospital.Service
	validate *validator.Validator
}

func NewHandler(service *hospital.Service, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	hospitals := r.Group("/hospitals")
	{
		hospitals.POST("", h.CreateHospital)
		hospitals.GET("", h.ListHospitals)
		hospitals.GET("/:id", h.GetHospital)
		hospitals.PUT("/:id", h.UpdateHospital)
	}
}

type hospitalRequest struct {
	Name              string                   `json:"name" validate:"required,max=200"`
	TriageContactName *string                  `json:"triage_contact_name"`
	TriagePhone       *string                  `json:"triage_phone"`
	TriageWhatsApp    *string                  `json:"triage_whatsapp"`
	TriageEmail       *string                  `json:"triage_email" validate:"omitempty,email"`
	PreferredMethod   model.NotificationMethod `json:"preferred_notification_method"`
}

func (r *hospitalRequest) toModel() *model.Hospital {
	return &model.Hospital{
		Name:              r.Name,
		TriageContactName: r.TriageContactName,
		TriagePhone:       r.TriagePhone,
		TriageWhatsApp:    r.TriageWhatsApp,
		TriageEmail:       r.TriageEmail,
		PreferredMethod:   r.PreferredMethod,
	}
}

func (h *Handler) CreateHospital(c *gin.Context) {
	var req hospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), req.toModel())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) ListHospitals(c *gin.Context) {
	hospitals, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(hospitals))
}

func (h *Handler) GetHospital(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid hospital ID"))
		return
	}

	hosp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(hosp))
}

func (h *Handler) UpdateHospital(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid hospital ID"))
		return
	}

	var req hospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	hosp := req.toModel()
	hosp.ID = id
	if err := h.service.Update(c.Request.Context(), hosp); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(hosp))
}
