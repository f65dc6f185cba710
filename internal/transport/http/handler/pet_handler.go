package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"furrylink/internal/domain"
	"furrylink/internal/service"
	"furrylink/internal/transport/http/ez"
)

type PetHandler struct {
	svc *service.PetService
	log *zap.Logger
}

func NewPetHandler(svc *service.PetService, log *zap.Logger) *PetHandler {
	return &PetHandler{svc: svc, log: log}
}

type petForm struct {
	AnimalType string                `form:"animalType"`
	Breed      string                `form:"breed"`
	Age        string                `form:"age"`
	Price      string                `form:"price"`
	Image      *multipart.FileHeader `form:"image_filename"`
}

func (h *PetHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.Register(e, ez.Action[struct{}, []service.PetView]{
		Method: http.MethodGet,
		Path:   "/pets",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ domain.Identity, _ *struct{}) ([]service.PetView, error) {
			return h.svc.List(c.Request.Context())
		},
	})

	ez.Register(e, ez.Action[petForm, *service.PetView]{
		Method:  http.MethodPost,
		Path:    "/pets",
		Binder:  ez.BindForm,
		Auth:    true,
		AuthMsg: "Unauthorized",
		Status:  http.StatusCreated,
		Handler: h.create,
	})

	ez.Register(e, ez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/pet/:id",
		Binder: ez.BindNone,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, who domain.Identity, _ *struct{}) (struct{}, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return struct{}{}, domain.NotFound("No pet found.")
			}
			return struct{}{}, h.svc.Delete(c.Request.Context(), who, id)
		},
	})

	g.GET("/uploads/:filename", h.image)
}

func (h *PetHandler) create(c *gin.Context, who domain.Identity, in *petForm) (*service.PetView, error) {
	np := service.NewPet{Type: in.AnimalType, Breed: in.Breed, Age: in.Age, Price: in.Price}
	if in.Image != nil {
		f, err := in.Image.Open()
		if err != nil {
			return nil, domain.InvalidArgument("No file part")
		}
		defer f.Close()
		np.Photo = &service.Photo{Filename: in.Image.Filename, Size: in.Image.Size, Body: f}
	}
	return h.svc.Create(c.Request.Context(), who, np)
}

func (h *PetHandler) image(c *gin.Context) {
	rc, ct, err := h.svc.OpenImage(c.Request.Context(), c.Param("filename"))
	if err != nil {
		ez.WriteError(c, h.log, err)
		return
	}
	defer rc.Close()
	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, -1, ct, rc, nil)
}
