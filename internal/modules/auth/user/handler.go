package user

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/zivana-montessori/core/internal/middleware"
	"github.com/zivana-montessori/core/internal/pkg/response"
	sessionpkg "github.com/zivana-montessori/core/internal/pkg/session"
)

type Handler struct {
	svc      *Service
	sessions middleware.SessionVerifier
}

func NewHandler(svc *Service, sessions middleware.SessionVerifier) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")
	g.POST("/login", h.login)
	g.GET("/check", middleware.OptionalAuth(h.sessions), h.check)

	a := g.Group("", authMW)
	a.GET("/me", h.me)
	a.POST("/logout", h.logout)
	a.PATCH("/password", h.changePassword)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, sess, u, err := h.svc.Login(c.Request.Context(), dto.Email, dto.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.UnauthorizedMsg(c, "Email atau kata sandi salah")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, loginResponse{Token: token, ExpiresAt: sess.ExpiresAt, User: toResponse(u)})
}

func (h *Handler) check(c *gin.Context) {
	authed := middleware.IsAuthenticated(c)
	response.OK(c, gin.H{"ok": authed, "isGuest": !authed})
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.GetByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, toResponse(u))
}

func (h *Handler) logout(c *gin.Context) {
	err := h.svc.Logout(c.Request.Context(), middleware.CurrentUserID(c), middleware.CurrentSessionID(c))
	if err != nil && !errors.Is(err, sessionpkg.ErrNotFound) {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) changePassword(c *gin.Context) {
	var dto ChangePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.svc.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), dto.OldPassword, dto.NewPassword)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		response.BadRequest(c, "Kata sandi lama salah")
	case errors.Is(err, ErrPasswordSameAsOld):
		response.UnprocessableEntity(c, "Kata sandi baru sama dengan yang lama")
	case errors.Is(err, ErrInvalidInput):
		response.UnprocessableEntity(c, err.Error())
	case err != nil:
		response.InternalError(c, err)
	default:
		response.NoContent(c)
	}
}
