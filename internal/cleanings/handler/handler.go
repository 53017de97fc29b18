package handler

import (
	"net/http"
	"time"

	"stayclean_backend/internal/cleanings/service"
	"stayclean_backend/internal/cleanings/transport"
	"stayclean_backend/platform/httpkit"
	"stayclean_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidID        = "invalid id"
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for cleaning diagnostics
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new cleanings handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// mustGetTenantID extracts the tenant ID from identity and returns it.
// Returns zero UUID and false if tenant ID is not present.
func mustGetTenantID(c *gin.Context, identity httpkit.Identity) (uuid.UUID, bool) {
	tenantID := identity.TenantID()
	if tenantID == nil {
		httpkit.Error(c, http.StatusBadRequest, "tenant ID is required", nil)
		return uuid.UUID{}, false
	}
	return *tenantID, true
}

// RegisterCleaningRoutes registers the per-job diagnostic routes
func (h *Handler) RegisterCleaningRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/attention", h.JobAttention)
	rg.GET("/:id/eligible-members", h.EligibleMembers)
}

// RegisterPropertyRoutes registers the property-level diagnostic routes
func (h *Handler) RegisterPropertyRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/teams", h.PropertyTeams)
}

// RegisterReservationRoutes registers the booking-level diagnostic routes
func (h *Handler) RegisterReservationRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/attention", h.ReservationAttention)
}

func (h *Handler) requestScope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, uuid.UUID{}, false
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.UUID{}, uuid.UUID{}, false
	}
	tenantID, ok := mustGetTenantID(c, identity)
	if !ok {
		return uuid.UUID{}, uuid.UUID{}, false
	}
	return tenantID, id, true
}

// JobAttention handles GET /api/v1/cleanings/:id/attention
func (h *Handler) JobAttention(c *gin.Context) {
	tenantID, jobID, ok := h.requestScope(c)
	if !ok {
		return
	}

	cache := service.NewEligibilityCache()
	result, err := h.svc.AttentionForJob(c.Request.Context(), cache, tenantID, jobID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// EligibleMembers handles GET /api/v1/cleanings/:id/eligible-members
func (h *Handler) EligibleMembers(c *gin.Context) {
	var req transport.EligibleMembersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tenantID, jobID, ok := h.requestScope(c)
	if !ok {
		return
	}

	var at *time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		at = &parsed
	}

	cache := service.NewEligibilityCache()
	result, err := h.svc.EligibleWorkersForJob(c.Request.Context(), cache, tenantID, jobID, at)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// PropertyTeams handles GET /api/v1/properties/:id/teams
func (h *Handler) PropertyTeams(c *gin.Context) {
	tenantID, propertyID, ok := h.requestScope(c)
	if !ok {
		return
	}

	result, err := h.svc.PropertyTeams(c.Request.Context(), tenantID, propertyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ReservationAttention handles GET /api/v1/reservations/:id/attention
func (h *Handler) ReservationAttention(c *gin.Context) {
	tenantID, bookingID, ok := h.requestScope(c)
	if !ok {
		return
	}

	cache := service.NewEligibilityCache()
	result, err := h.svc.DiagnoseReservation(c.Request.Context(), cache, tenantID, bookingID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
