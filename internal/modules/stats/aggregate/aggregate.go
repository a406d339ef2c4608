package aggregate

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zivana-montessori/core/internal/models"
	"github.com/zivana-montessori/core/internal/pkg/response"
	"gorm.io/gorm"
)

type Stat struct {
	Programs       int64 `json:"programs"`
	ProgramImages  int64 `json:"program_images"`
	Articles       int64 `json:"articles"`
	Published      int64 `json:"published_articles"`
	Drafts         int64 `json:"draft_articles"`
	Employees      int64 `json:"employees"`
	Awards         int64 `json:"awards"`
	Schedules      int64 `json:"schedules"`
	SocialMedia    int64 `json:"social_media"`
	FormFields     int64 `json:"form_fields"`
	EnabledFields  int64 `json:"enabled_form_fields"`
	ActiveSessions int64 `json:"active_sessions"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Stat counts every content collection for the dashboard home.
func (s *Service) Stat(ctx context.Context) (Stat, error) {
	db := s.db.WithContext(ctx)
	var st Stat
	counts := []struct {
		model interface{}
		where []interface{}
		dest  *int64
	}{
		{&models.ProgramModel{}, nil, &st.Programs},
		{&models.ProgramImageModel{}, nil, &st.ProgramImages},
		{&models.ArticleModel{}, nil, &st.Articles},
		{&models.ArticleModel{}, []interface{}{"published = ?", true}, &st.Published},
		{&models.ArticleModel{}, []interface{}{"published = ?", false}, &st.Drafts},
		{&models.EmployeeModel{}, nil, &st.Employees},
		{&models.AwardModel{}, nil, &st.Awards},
		{&models.ScheduleModel{}, nil, &st.Schedules},
		{&models.SocialMediaModel{}, nil, &st.SocialMedia},
		{&models.FormFieldModel{}, nil, &st.FormFields},
		{&models.FormFieldModel{}, []interface{}{"enabled = ?", true}, &st.EnabledFields},
		{&models.AdminSession{}, []interface{}{"revoked_at IS NULL AND expires_at > ?", time.Now()}, &st.ActiveSessions},
	}
	for _, c := range counts {
		tx := db.Model(c.model)
		if len(c.where) > 0 {
			tx = tx.Where(c.where[0], c.where[1:]...)
		}
		if err := tx.Count(c.dest).Error; err != nil {
			return Stat{}, err
		}
	}
	return st, nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/aggregate/stat", authMW, h.stat)
}

func (h *Handler) stat(c *gin.Context) {
	st, err := h.svc.Stat(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, st)
}
