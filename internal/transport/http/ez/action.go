package ez

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"furrylink/internal/domain"
	mdw "furrylink/internal/transport/http/middleware"
	resp "furrylink/internal/transport/http/response"
	"furrylink/pkg/validation"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindForm  Binder = "form"  // multipart / urlencoded 表单
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PATCH" | "DELETE"
	Path    string // 例："/login"、"/application/:id"
	Binder  Binder
	Auth    bool   // 绑定之前先要求登录
	AuthMsg string // 未登录提示，默认 "User not authorized."
	Status  int    // 成功状态码，默认 200；204 不写 body
	Handler func(c *gin.Context, who domain.Identity, in *I) (O, error)
}

type EZ struct {
	g   gin.IRoutes
	log *zap.Logger
}

func New(g gin.IRoutes, l *zap.Logger) EZ { return EZ{g: g, log: l} }

// Register 在当前 EZ 下注册动作接口
func Register[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	authMsg := a.AuthMsg
	if authMsg == "" {
		authMsg = "User not authorized."
	}

	h := func(c *gin.Context) {
		// 1) 鉴权
		who := mdw.Identity(c)
		if a.Auth && !who.Authenticated() {
			resp.Abort(c, resp.CodeUnauthorized, authMsg)
			return
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindForm:
			bindErr = c.ShouldBind(&in)
		default:
		}
		if bindErr != nil {
			writeBindError(c, bindErr)
			return
		}

		// 3) 执行
		out, err := a.Handler(c, who, &in)
		if err != nil {
			WriteError(c, e.log, err)
			return
		}
		if status == http.StatusNoContent {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// bindError 由 Handler 自行绑定时返回，输出与框架绑定失败一致
type bindError struct{ err error }

func (e bindError) Error() string { return e.err.Error() }
func (e bindError) Unwrap() error { return e.err }

// BindError 包装 BindNone 动作里的绑定/校验错误
func BindError(err error) error {
	if err == nil {
		return nil
	}
	return bindError{err: err}
}

func writeBindError(c *gin.Context, err error) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		c.AbortWithStatusJSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, "File too large"))
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest,
		resp.WithDetails(resp.CodeBadRequest, "Invalid request.", validation.ToDetails(err)))
}

// StatusOf 业务错误分类 → HTTP 状态码
func StatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// WriteError 未分类的错误只记日志，不把内部信息返回给客户端
func WriteError(c *gin.Context, l *zap.Logger, err error) {
	var be bindError
	if errors.As(err, &be) {
		writeBindError(c, be.err)
		return
	}
	code := StatusOf(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		l.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		resp.Abort(c, code, "")
		return
	}
	var de *domain.Error
	msg := ""
	if errors.As(err, &de) {
		msg = de.Msg
	}
	resp.Abort(c, code, msg)
}

// ParamID 解析路径里的正整数 id
func ParamID(c *gin.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, domain.NotFound("Not found.")
	}
	return uint(n), nil
}
