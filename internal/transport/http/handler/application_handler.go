package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"furrylink/internal/domain"
	"furrylink/internal/service"
	"furrylink/internal/transport/http/ez"
)

type ApplicationHandler struct {
	svc *service.ApplicationService
	log *zap.Logger
}

func NewApplicationHandler(svc *service.ApplicationService, log *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{svc: svc, log: log}
}

type applyIn struct {
	PetID       uint   `json:"petID" binding:"required"`
	Description string `json:"description" binding:"max=4000"`
}

type statusIn struct {
	Status string `json:"status"`
}

func (h *ApplicationHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.Register(e, ez.Action[struct{}, []service.ApplicationView]{
		Method: http.MethodGet,
		Path:   "/applications",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, who domain.Identity, _ *struct{}) ([]service.ApplicationView, error) {
			return h.svc.List(c.Request.Context(), who)
		},
	})

	ez.Register(e, ez.Action[applyIn, *service.ApplicationView]{
		Method: http.MethodPost,
		Path:   "/applications",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, who domain.Identity, in *applyIn) (*service.ApplicationView, error) {
			return h.svc.Create(c.Request.Context(), who, in.PetID, in.Description)
		},
	})

	// body 在存在性与归属校验之后才解析，坏 body 按非法状态处理
	ez.Register(e, ez.Action[struct{}, *service.ApplicationView]{
		Method: http.MethodPatch,
		Path:   "/application/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, who domain.Identity, _ *struct{}) (*service.ApplicationView, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, domain.NotFound("Application not found.")
			}
			var in statusIn
			_ = c.ShouldBindJSON(&in)
			return h.svc.SetStatus(c.Request.Context(), who, id, in.Status)
		},
	})
}
