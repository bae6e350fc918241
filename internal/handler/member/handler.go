package member

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/resqlink/dispatch-api/internal/handler"
	"github.com/resqlink/dispatch-api/internal/model"
	"github.com/resqlink/dispatch-api/internal/service/member"
	"github.com/resqlink/dispatch-api/pkg/validator"
)

type Handler struct {
	service  *member.Service
	validate *validator.Validator
}

func NewHandler(service *member.Service, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	members := r.Group("/members")
	{
		members.POST("", h.CreateMember)
		members.GET("", h.SearchMembers)
		members.GET("/:id", h.GetMember)
		members.PUT("/:id", h.UpdateMember)
		members.GET("/phone/:phone", h.LookupByPhone)
	}
}

type memberRequest struct {
	FullName            string     `json:"full_name" validate:"required,max=200"`
	DateOfBirth         *time.Time `json:"date_of_birth"`
	Phone               string     `json:"phone" validate:"required,max=20"`
	EmergencyContact    *string    `json:"emergency_contact"`
	Allergies           *string    `json:"allergies"`
	Medications         *string    `json:"medications"`
	MedicalConditions   *string    `json:"medical_conditions"`
	PreferredHospitalID *uuid.UUID `json:"preferred_hospital_id"`
	ConsentFlag         bool       `json:"consent_flag"`
}

func (r *memberRequest) toModel() *model.Member {
	return &model.Member{
		FullName:            r.FullName,
		DateOfBirth:         r.DateOfBirth,
		Phone:               r.Phone,
		EmergencyContact:    r.EmergencyContact,
		Allergies:           r.Allergies,
		Medications:         r.Medications,
		MedicalConditions:   r.MedicalConditions,
		PreferredHospitalID: r.PreferredHospitalID,
		ConsentFlag:         r.ConsentFlag,
	}
}

func (h *Handler) CreateMember(c *gin.Context) {
	var req memberRequest
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

func (h *Handler) SearchMembers(c *gin.Context) {
	results, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(results))
}

func (h *Handler) GetMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid member ID"))
		return
	}

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}

func (h *Handler) UpdateMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid member ID"))
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	m := req.toModel()
	m.ID = id
	if err := h.service.Update(c.Request.Context(), m); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}

func (h *Handler) LookupByPhone(c *gin.Context) {
	m, err := h.service.LookupByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}
