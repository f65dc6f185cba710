package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"furrylink/internal/domain"
	"furrylink/internal/service"
	"furrylink/internal/transport/http/ez"
	mdw "furrylink/internal/transport/http/middleware"
)

type AuthHandler struct {
	svc        *service.AuthService
	cookies    *mdw.Cookies
	loginLimit gin.HandlerFunc
	log        *zap.Logger
}

// NewAuthHandler loginLimit 可为 nil
func NewAuthHandler(svc *service.AuthService, cookies *mdw.Cookies, loginLimit gin.HandlerFunc, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, cookies: cookies, loginLimit: loginLimit, log: log}
}

func (h *AuthHandler) Priority() int { return 10 }

type loginIn struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
}

type signupIn struct {
	FirstName        *string `json:"firstName" binding:"omitempty,max=64"`
	LastName         *string `json:"lastName" binding:"omitempty,max=64"`
	Email            string  `json:"email" binding:"required,email"`
	Telephone        string  `json:"telephone" binding:"required,phone"`
	AnimalShelter    bool    `json:"animalShelter"`
	OrganizationName *string `json:"organizationName" binding:"omitempty,max=128"`
	Password         string  `json:"password" binding:"required,pwd"`
}

func (h *AuthHandler) MountAPI(g *gin.RouterGroup) {
	public := ez.New(g, h.log)
	limited := public
	if h.loginLimit != nil {
		limited = ez.New(g.Group("", h.loginLimit), h.log)
	}

	ez.Register(limited, ez.Action[loginIn, *service.UserDetail]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ domain.Identity, in *loginIn) (*service.UserDetail, error) {
			u, tok, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return nil, err
			}
			h.cookies.Set(c, tok)
			return u, nil
		},
	})

	ez.Register(public, ez.Action[struct{}, *service.UserDetail]{
		Method: http.MethodGet,
		Path:   "/check_session",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, who domain.Identity, _ *struct{}) (*service.UserDetail, error) {
			return h.svc.Current(c.Request.Context(), who)
		},
	})

	ez.Register(public, ez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/logout",
		Binder: ez.BindNone,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ domain.Identity, _ *struct{}) (struct{}, error) {
			if err := h.svc.Logout(c.Request.Context(), h.cookies.Read(c)); err != nil {
				return struct{}{}, err
			}
			h.cookies.Clear(c)
			return struct{}{}, nil
		},
	})

	// 注册后自动登录
	ez.Register(limited, ez.Action[signupIn, *service.UserDetail]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ domain.Identity, in *signupIn) (*service.UserDetail, error) {
			u, tok, err := h.svc.Signup(c.Request.Context(), service.SignupInput{
				FirstName:        in.FirstName,
				LastName:         in.LastName,
				Email:            in.Email,
				Telephone:        in.Telephone,
				AnimalShelter:    in.AnimalShelter,
				OrganizationName: in.OrganizationName,
				Password:         in.Password,
			})
			if err != nil {
				return nil, err
			}
			h.cookies.Set(c, tok)
			return u, nil
		},
	})
}
