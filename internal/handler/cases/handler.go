package cases

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/resqlink/dispatch-api/internal/email"
	"github.com/resqlink/dispatch-api/internal/handler"
	"github.com/resqlink/dispatch-api/internal/model"
	"github.com/resqlink/dispatch-api/internal/service/audit"
	"github.com/resqlink/dispatch-api/internal/service/cases"
	"github.com/resqlink/dispatch-api/internal/service/sbar"
	"github.com/resqlink/dispatch-api/pkg/logger"
)

type Handler struct {
	service cases.CaseService
	auditor *audit.Service
	sbarGen *sbar.Generator
	mailer  email.Service
	log     *logger.Logger
}

func NewHandler(service cases.CaseService, auditor *audit.Service, sbarGen *sbar.Generator, mailer email.Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		auditor: auditor,
		sbarGen: sbarGen,
		mailer:  mailer,
		log:     log,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/cases")
	{
		group.POST("", h.CreateCase)
		group.GET("", h.ListCases)
		group.GET("/:id", h.GetCase)
		group.PUT("/:id", h.UpdateCase)
		group.PATCH("/:id/status", h.ChangeStatus)
		group.POST("/:id/notify", h.LogNotification)
		group.GET("/:id/audit", h.CaseAudit)
		group.GET("/:id/sbar", h.CaseSBAR)
	}
}

type createCaseRequest struct {
	MemberID        *uuid.UUID `json:"member_id"`
	PatientName     string     `json:"patient_name" binding:"required"`
	Age             *int       `json:"age"`
	Sex             *string    `json:"sex"`
	EmergencyType   string     `json:"emergency_type" binding:"required"`
	LocationText    *string    `json:"location_text"`
	Latitude        *float64   `json:"latitude"`
	Longitude       *float64   `json:"longitude"`
	TransportMethod *string    `json:"transport_method"`
	EstimatedETA    *int       `json:"estimated_eta"`
	HospitalID      *uuid.UUID `json:"hospital_id"`
	Notes           *string    `json:"notes"`
}

func (h *Handler) CreateCase(c *gin.Context) {
	var req createCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	dispatcher := handler.DispatcherFrom(c)
	if dispatcher == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing dispatcher identity"))
		return
	}

	draft := &model.Case{
		MemberID:        req.MemberID,
		PatientName:     req.PatientName,
		Age:             req.Age,
		Sex:             req.Sex,
		EmergencyType:   req.EmergencyType,
		LocationText:    req.LocationText,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		TransportMethod: req.TransportMethod,
		EstimatedETA:    req.EstimatedETA,
		HospitalID:      req.HospitalID,
		Notes:           req.Notes,
	}

	created, err := h.service.Create(c.Request.Context(), draft, dispatcher.ID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) ListCases(c *gin.Context) {
	var filter *model.CaseStatus
	if raw := c.Query("status"); raw != "" {
		status := model.CaseStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("unknown status filter"))
			return
		}
		filter = &status
	}

	list, err := h.service.ListActive(c.Request.Context(), filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(list))
}

func (h *Handler) GetCase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid case ID"))
		return
	}

	detail, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(detail))
}

type updateCaseRequest struct {
	MemberID        *uuid.UUID `json:"member_id"`
	PatientName     string     `json:"patient_name" binding:"required"`
	Age             *int       `json:"age"`
	Sex             *string    `json:"sex"`
	EmergencyType   string     `json:"emergency_type" binding:"required"`
	LocationText    *string    `json:"location_text"`
	Latitude        *float64   `json:"latitude"`
	Longitude       *float64   `json:"longitude"`
	TransportMethod *string    `json:"transport_method"`
	EstimatedETA    *int       `json:"estimated_eta"`
	HospitalID      *uuid.UUID `json:"hospital_id"`
	Notes           *string    `json:"notes"`
}

func (h *Handler) UpdateCase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid case ID"))
		return
	}

	var req updateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	dispatcher := handler.DispatcherFrom(c)
	if dispatcher == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing dispatcher identity"))
		return
	}

	updated := &model.Case{
		ID:              id,
		MemberID:        req.MemberID,
		PatientName:     req.PatientName,
		Age:             req.Age,
		Sex:             req.Sex,
		EmergencyType:   req.EmergencyType,
		LocationText:    req.LocationText,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		TransportMethod: req.TransportMethod,
		EstimatedETA:    req.EstimatedETA,
		HospitalID:      req.HospitalID,
		Notes:           req.Notes,
	}

	if err := h.service.Update(c.Request.Context(), updated, dispatcher.ID); err != nil {
		handler.RespondError(c, err)
		return
	}

	detail, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(detail.Case))
}

type changeStatusRequest struct {
	Status model.CaseStatus `json:"status" binding:"required"`
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid case ID"))
		return
	}

	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	dispatcher := handler.DispatcherFrom(c)
	if dispatcher == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing dispatcher identity"))
		return
	}

	if err := h.service.ChangeStatus(c.Request.Context(), id, req.Status, dispatcher.ID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"id": id, "status": req.Status}))
}

type notifyRequest struct {
	Method    model.NotificationMethod `json:"method" binding:"required"`
	Note      *string                  `json:"note"`
	SendEmail bool                     `json:"send_email"`
}

// LogNotification records the notification through the lifecycle manager.
// When asked, it also delivers the generated SBAR email to the hospital's
// triage address; delivery failure never rolls back the recorded
// notification, it only shows up in the response.
func (h *Handler) LogNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid case ID"))
		return
	}

	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	dispatcher := handler.DispatcherFrom(c)
	if dispatcher == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing dispatcher identity"))
		return
	}

	if err := h.service.LogNotification(c.Request.Context(), id, req.Method, req.Note, dispatcher.ID); err != nil {
		handler.RespondError(c, err)
		return
	}

	resp := gin.H{"id": id, "notified_via": req.Method}
	if req.SendEmail || req.Method == model.NotifyViaEmail {
		resp["email_delivered"] = h.deliverEmail(c, id, dispatcher)
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}

func (h *Handler) deliverEmail(c *gin.Context, id uuid.UUID, dispatcher *model.Dispatcher) bool {
	detail, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.log.Error(err, "failed to load case for email pre-notification")
		return false
	}
	if detail.Hospital == nil || detail.Hospital.TriageEmail == nil {
		h.log.Warn("case has no hospital triage email; skipping delivery")
		return false
	}

	subject, body := h.sbarGen.Email(&detail.Case, detail.Member, dispatcher)
	if err := h.mailer.SendPreNotification(c.Request.Context(), *detail.Hospital.TriageEmail, subject, body); err != nil {
		h.log.Error(err, "failed to deliver pre-notification email")
		return false
	}
	return true
}

func (h *Handler) CaseAudit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid case ID"))
		return
	}

	history, err := h.auditor.CaseHistory(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(history))
}

// CaseSBAR returns the generated pre-notification text in the requested
// format: call (default), message, or email.
func (h *Handler) CaseSBAR(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid case ID"))
		return
	}

	dispatcher := handler.DispatcherFrom(c)
	if dispatcher == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing dispatcher identity"))
		return
	}

	detail, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	var text string
	switch c.DefaultQuery("format", "call") {
	case "call":
		text = h.sbarGen.CallScript(&detail.Case, detail.Member, dispatcher)
	case "message":
		text = h.sbarGen.Message(&detail.Case, detail.Member, dispatcher)
	case "email":
		subject, body := h.sbarGen.Email(&detail.Case, detail.Member, dispatcher)
		text = subject + "\n\n" + body
	default:
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("unknown format"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"text": text}))
}
