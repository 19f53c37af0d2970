package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"appointment-booking/internal/domain"
	"appointment-booking/internal/service"
	"appointment-booking/internal/transport/http/ez"
)

// UserAdmin 管理端：用户在这里创建（预约接口不暴露用户写操作）
type UserAdmin struct {
	users *service.UserService
	appts *service.AppointmentService
	log   *zap.Logger
}

func NewUserAdmin(users *service.UserService, appts *service.AppointmentService, l *zap.Logger) *UserAdmin {
	return &UserAdmin{users: users, appts: appts, log: l}
}

type createUserReq struct {
	Name  string `json:"name"  binding:"required"`
	Email string `json:"email" binding:"required"`
	Role  string `json:"role"  binding:"required"`
}

func (a *UserAdmin) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, a.log)

	ez.RegisterAction(e, ez.Action[createUserReq, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createUserReq) (*domain.User, error) {
			return a.users.Create(c.Request.Context(), service.CreateUserInput{
				Name: in.Name, Email: in.Email, Role: in.Role,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return a.users.Get(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := a.users.Delete(c.Request.Context(), id); err != nil {
				return nil, err
			}
			a.log.Info("user deleted", zap.Uint("user_id", id))
			return gin.H{"id": id}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Appointment]{
		Method: http.MethodGet,
		Path:   "/appointments/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Appointment, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return a.appts.Get(c.Request.Context(), id)
		},
	})
}
