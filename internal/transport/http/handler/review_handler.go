package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"furrylink/internal/domain"
	"furrylink/internal/service"
	"furrylink/internal/transport/http/ez"
)

type ReviewHandler struct {
	svc *service.ReviewService
	log *zap.Logger
}

func NewReviewHandler(svc *service.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, log: log}
}

type reviewIn struct {
	Comment string `json:"comment" binding:"required,max=2000"`
}

func (h *ReviewHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.Register(e, ez.Action[struct{}, []service.ReviewView]{
		Method: http.MethodGet,
		Path:   "/reviews",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ domain.Identity, _ *struct{}) ([]service.ReviewView, error) {
			return h.svc.List(c.Request.Context())
		},
	})

	ez.Register(e, ez.Action[reviewIn, *service.ReviewView]{
		Method: http.MethodPost,
		Path:   "/reviews",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, who domain.Identity, in *reviewIn) (*service.ReviewView, error) {
			return h.svc.Create(c.Request.Context(), who, in.Comment)
		},
	})
}
