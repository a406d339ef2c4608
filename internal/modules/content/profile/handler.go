package profile

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/zivana-montessori/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	awards := rg.Group("/awards")
	awards.GET("", h.listAwards)
	awards.GET("/:id", h.getAward)
	awards.POST("", authMW, h.saveAward)
	awards.PUT("/:id", authMW, h.saveAward)
	awards.DELETE("/:id", authMW, h.deleteAward)

	schedules := rg.Group("/schedules")
	schedules.GET("", h.listSchedules)
	schedules.GET("/:id", h.getSchedule)
	schedules.POST("", authMW, h.saveSchedule)
	schedules.PUT("/:id", authMW, h.saveSchedule)
	schedules.DELETE("/:id", authMW, h.deleteSchedule)

	social := rg.Group("/social-media")
	social.GET("", h.listSocialMedia)
	social.GET("/:id", h.getSocialMedia)
	social.POST("", authMW, h.saveSocialMedia)
	social.PUT("/:id", authMW, h.saveSocialMedia)
	social.DELETE("/:id", authMW, h.deleteSocialMedia)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c)
	case errors.Is(err, ErrInvalidInput):
		response.BadRequest(c, "Data wajib belum lengkap")
	default:
		response.InternalError(c, err)
	}
}

// reply sends 201 for creates (no :id in the route) and 200 for updates.
func reply(c *gin.Context, data interface{}) {
	if c.Param("id") == "" {
		response.Created(c, data)
		return
	}
	response.OK(c, data)
}

func (h *Handler) listAwards(c *gin.Context) {
	items, err := h.svc.Awards(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) getAward(c *gin.Context) {
	item, err := h.svc.Award(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) saveAward(c *gin.Context) {
	var dto AwardDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.svc.SaveAward(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	reply(c, item)
}

func (h *Handler) deleteAward(c *gin.Context) {
	if err := h.svc.DeleteAward(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) listSchedules(c *gin.Context) {
	items, err := h.svc.Schedules(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) getSchedule(c *gin.Context) {
	item, err := h.svc.Schedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) saveSchedule(c *gin.Context) {
	var dto ScheduleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.svc.SaveSchedule(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	reply(c, item)
}

func (h *Handler) deleteSchedule(c *gin.Context) {
	if err := h.svc.DeleteSchedule(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) listSocialMedia(c *gin.Context) {
	items, err := h.svc.SocialMedia(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) getSocialMedia(c *gin.Context) {
	item, err := h.svc.SocialMediaLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) saveSocialMedia(c *gin.Context) {
	var dto SocialMediaDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.svc.SaveSocialMedia(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	reply(c, item)
}

func (h *Handler) deleteSocialMedia(c *gin.Context) {
	if err := h.svc.DeleteSocialMedia(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}
