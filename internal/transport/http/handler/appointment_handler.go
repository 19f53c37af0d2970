package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"appointment-booking/internal/domain"
	"appointment-booking/internal/service"
	mdw "appointment-booking/internal/transport/http/middleware"
	resp "appointment-booking/internal/transport/http/response"
)

const (
	MsgBooked          = "Appointment booked successfully!"
	MsgUpdated         = "Appointment updated successfully!"
	MsgCanceled        = "Appointment canceled successfully!"
	MsgUserNotFound    = "User not found!"
	MsgApptNotFound    = "Appointment not found!"
	MsgInvalidApptID   = "invalid appointment id"
	MsgInternal        = "internal error"
	MsgPayloadTooLarge = "request body too large"
	MsgTimeout         = "timeout"
)

var apptMutations = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "appointment_mutations_total", Help: "Appointment create/update/delete outcomes"},
	[]string{"op", "result"},
)

func init() { prometheus.MustRegister(apptMutations) }

// 指针字段：required 只校验“有没有传”，空串和 0 照常放行
type createAppointmentReq struct {
	UserID *uint   `json:"user_id" binding:"required"`
	Date   *string `json:"date"    binding:"required"`
	Time   *string `json:"time"    binding:"required"`
}

// 省略的字段保留原值
type updateAppointmentReq struct {
	Date *string `json:"date"`
	Time *string `json:"time"`
}

type AppointmentHandler struct {
	svc *service.AppointmentService
	log *zap.Logger
}

func NewAppointmentHandler(svc *service.AppointmentService, l *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, log: l}
}

// MountAPI 挂到预约接口根分组
func (h *AppointmentHandler) MountAPI(g *gin.RouterGroup) {
	g.POST("/appointments", h.Create)
	g.PUT("/appointments/:id", h.Update)
	g.DELETE("/appointments/:id", h.Delete)
}

func (h *AppointmentHandler) Priority() int { return 10 }

func (h *AppointmentHandler) Create(c *gin.Context) {
	var in createAppointmentReq
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "create", err)
		return
	}
	a, err := h.svc.Create(c.Request.Context(), service.CreateAppointmentInput{
		UserID: *in.UserID, Date: *in.Date, Time: *in.Time,
	})
	if err != nil {
		h.fail(c, "create", err)
		return
	}
	apptMutations.WithLabelValues("create", "ok").Inc()
	h.log.Debug("appointment booked", zap.Uint("id", a.ID), zap.Uint("user_id", a.UserID))
	c.JSON(http.StatusCreated, resp.Message(MsgBooked))
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "update")
	if !ok {
		return
	}
	var in updateAppointmentReq
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "update", err)
		return
	}
	if _, err := h.svc.Update(c.Request.Context(), id, service.UpdateAppointmentInput{Date: in.Date, Time: in.Time}); err != nil {
		h.fail(c, "update", err)
		return
	}
	apptMutations.WithLabelValues("update", "ok").Inc()
	c.JSON(http.StatusOK, resp.Message(MsgUpdated))
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "delete")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "delete", err)
		return
	}
	apptMutations.WithLabelValues("delete", "ok").Inc()
	c.JSON(http.StatusOK, resp.Message(MsgCanceled))
}

func (h *AppointmentHandler) pathID(c *gin.Context, op string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || v == 0 {
		apptMutations.WithLabelValues(op, "bad_request").Inc()
		c.JSON(http.StatusBadRequest, resp.Message(MsgInvalidApptID))
		return 0, false
	}
	return uint(v), true
}

func (h *AppointmentHandler) badRequest(c *gin.Context, op string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		apptMutations.WithLabelValues(op, "too_large").Inc()
		c.JSON(http.StatusRequestEntityTooLarge, resp.Message(MsgPayloadTooLarge))
		return
	}
	apptMutations.WithLabelValues(op, "bad_request").Inc()
	c.JSON(http.StatusBadRequest, resp.Message(err.Error()))
}

func (h *AppointmentHandler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		apptMutations.WithLabelValues(op, "not_found").Inc()
		c.JSON(http.StatusNotFound, resp.Message(MsgUserNotFound))
	case errors.Is(err, domain.ErrNotFound):
		apptMutations.WithLabelValues(op, "not_found").Inc()
		c.JSON(http.StatusNotFound, resp.Message(MsgApptNotFound))
	case errors.Is(err, context.DeadlineExceeded):
		apptMutations.WithLabelValues(op, "timeout").Inc()
		h.log.Warn("appointment "+op+" timed out", zap.String("rid", mdw.RequestIDOf(c)), zap.Error(err))
		c.JSON(http.StatusGatewayTimeout, resp.Message(MsgTimeout))
	default:
		apptMutations.WithLabelValues(op, "error").Inc()
		_ = c.Error(err)
		h.log.Error("appointment "+op+" failed", zap.String("rid", mdw.RequestIDOf(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, resp.Message(MsgInternal))
	}
}
