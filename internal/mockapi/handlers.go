package mockapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/municollect/internal/client/apierror"
	"github.com/dmitrijs2005/municollect/internal/client/models"
	"github.com/dmitrijs2005/municollect/internal/logging"
)

type handlers struct {
	svc *Service
	log logging.Logger
}

// bind decodes the JSON body, reporting malformed input as a validation
// failure.
func (h *handlers) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		h.fail(c, apierror.NewValidation("Invalid request body: "+err.Error(), "", nil))
		return false
	}
	return true
}

func (h *handlers) register(c *gin.Context) {
	var req models.RegisterRequest
	if !h.bind(c, &req) {
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, resp)
}

func (h *handlers) login(c *gin.Context) {
	var req models.LoginRequest
	if !h.bind(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, resp)
}

func (h *handlers) refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if !h.bind(c, &req) {
		return
	}
	resp, err := h.svc.RefreshToken(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, resp)
}

func (h *handlers) logout(c *gin.Context) {
	if caller, ok := callerFrom(c); ok {
		h.svc.Logout(c.Request.Context(), &caller)
	}
	h.ok(c, http.StatusOK, nil)
}

func (h *handlers) profile(c *gin.Context) {
	resp, err := h.svc.Profile(c.Request.Context(), mustCaller(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, resp)
}

func (h *handlers) updateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !h.bind(c, &req) {
		return
	}
	user, err := h.svc.UpdateProfile(c.Request.Context(), mustCaller(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, user)
}

func (h *handlers) userMunicipalities(c *gin.Context) {
	list, err := h.svc.UserMunicipalities(c.Request.Context(), mustCaller(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, list)
}

func (h *handlers) municipalities(c *gin.Context) {
	h.ok(c, http.StatusOK, h.svc.Municipalities(c.Request.Context()))
}

func (h *handlers) municipality(c *gin.Context) {
	m, err := h.svc.Municipality(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, models.MunicipalityResponse{Municipality: *m})
}

func (h *handlers) createMunicipality(c *gin.Context) {
	var req models.MunicipalityRequest
	if !h.bind(c, &req) {
		return
	}
	m, err := h.svc.CreateMunicipality(c.Request.Context(), mustCaller(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, models.MunicipalityResponse{Municipality: *m})
}

func (h *handlers) updateMunicipality(c *gin.Context) {
	var req models.MunicipalityRequest
	if !h.bind(c, &req) {
		return
	}
	m, err := h.svc.UpdateMunicipality(c.Request.Context(), mustCaller(c), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, models.MunicipalityResponse{Municipality: *m})
}

func (h *handlers) paymentServices(c *gin.Context) {
	h.ok(c, http.StatusOK, h.svc.PaymentServices(c.Request.Context()))
}

func (h *handlers) initiatePayment(c *gin.Context) {
	var req models.PaymentRequest
	if !h.bind(c, &req) {
		return
	}
	resp, err := h.svc.InitiatePayment(c.Request.Context(), mustCaller(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, resp)
}

func (h *handlers) paymentHistory(c *gin.Context) {
	q := queryReader{c: c}
	f := models.PaymentHistoryRequest{
		MunicipalityID: c.Query("municipalityId"),
		ServiceType:    models.ServiceType(c.Query("serviceType")),
		Status:         models.PaymentStatus(c.Query("status")),
		StartDate:      q.timeParam("startDate"),
		EndDate:        q.timeParam("endDate"),
		Limit:          q.intParam("limit"),
		Offset:         q.intParam("offset"),
	}
	if q.err != nil {
		h.fail(c, q.err)
		return
	}
	resp, err := h.svc.PaymentHistory(c.Request.Context(), mustCaller(c), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, resp)
}

func (h *handlers) paymentStatus(c *gin.Context) {
	p, err := h.svc.PaymentStatus(c.Request.Context(), mustCaller(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, p)
}

func (h *handlers) updatePaymentStatus(c *gin.Context) {
	var upd models.PaymentStatusUpdate
	if !h.bind(c, &upd) {
		return
	}
	id := c.Param("id")
	if upd.PaymentID == "" {
		upd.PaymentID = id
	}
	if upd.PaymentID != id {
		h.fail(c, apierror.NewValidation("Payment id does not match path", "paymentId", upd.PaymentID))
		return
	}
	p, err := h.svc.UpdatePaymentStatus(c.Request.Context(), mustCaller(c), upd)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, p)
}

func (h *handlers) generateQRCode(c *gin.Context) {
	var req models.QRCodeRequest
	if !h.bind(c, &req) {
		return
	}
	resp, err := h.svc.GenerateQRCode(c.Request.Context(), mustCaller(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, resp)
}

func (h *handlers) qrCodeDetails(c *gin.Context) {
	resp, err := h.svc.QRCodeDetails(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, resp)
}

func (h *handlers) sendNotification(c *gin.Context) {
	var req models.NotificationRequest
	if !h.bind(c, &req) {
		return
	}
	n, err := h.svc.SendNotification(c.Request.Context(), mustCaller(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, models.NotificationResponse{Notification: *n})
}

func (h *handlers) notificationHistory(c *gin.Context) {
	q := queryReader{c: c}
	f := models.NotificationListRequest{
		UserID: c.Query("userId"),
		Status: models.NotificationStatus(c.Query("status")),
		Limit:  q.intParam("limit"),
		Offset: q.intParam("offset"),
	}
	if q.err != nil {
		h.fail(c, q.err)
		return
	}
	resp, err := h.svc.NotificationHistory(c.Request.Context(), mustCaller(c), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, resp)
}

func (h *handlers) markNotificationRead(c *gin.Context) {
	var req models.MarkNotificationReadRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), mustCaller(c), c.Param("id"), req); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, nil)
}

// queryReader parses typed query parameters, keeping the first failure.
type queryReader struct {
	c   *gin.Context
	err error
}

func (q *queryReader) intParam(key string) int {
	raw := q.c.Query(key)
	if raw == "" || q.err != nil {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		q.err = apierror.NewValidation(key+" must be an integer", key, raw)
	}
	return n
}

func (q *queryReader) timeParam(key string) *time.Time {
	raw := q.c.Query(key)
	if raw == "" || q.err != nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		q.err = apierror.NewValidation(key+" must be an ISO 8601 timestamp", key, raw)
		return nil
	}
	return &t
}
