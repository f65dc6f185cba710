package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"furrylink/internal/domain"
	"furrylink/internal/service"
	"furrylink/internal/transport/http/ez"
)

type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewUserHandler(svc *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// 只接受白名单字段；id、password_hash 等无法通过该接口修改
type userPatchIn struct {
	FirstName        *string `json:"firstName" binding:"omitempty,max=64"`
	LastName         *string `json:"lastName" binding:"omitempty,max=64"`
	Email            *string `json:"email" binding:"omitempty,email"`
	Telephone        *string `json:"telephone" binding:"omitempty,phone"`
	AnimalShelter    *bool   `json:"animalShelter"`
	OrganizationName *string `json:"organizationName" binding:"omitempty,max=128"`
	Password         *string `json:"password" binding:"omitempty,pwd"`
}

func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	ez.Register(ez.New(g, h.log), ez.Action[userPatchIn, *service.UserDetail]{
		Method: http.MethodPatch,
		Path:   "/user/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, who domain.Identity, in *userPatchIn) (*service.UserDetail, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, domain.NotFound("User not found.")
			}
			// 用户不存在时优先返回 404
			if err := c.ShouldBindJSON(in); err != nil {
				if _, derr := h.svc.Detail(c.Request.Context(), id); derr != nil {
					return nil, derr
				}
				return nil, ez.BindError(err)
			}
			return h.svc.Patch(c.Request.Context(), who, id, service.UserPatch{
				FirstName:        in.FirstName,
				LastName:         in.LastName,
				Email:            in.Email,
				Telephone:        in.Telephone,
				AnimalShelter:    in.AnimalShelter,
				OrganizationName: in.OrganizationName,
				Password:         in.Password,
			})
		},
	})
}
