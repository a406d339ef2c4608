// Package pagination reads ?page/?size and applies them to GORM queries.
package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zivana-montessori/core/internal/pkg/response"
	"gorm.io/gorm"
)

const (
	DefaultPage = 1
	DefaultSize = 20
	MaxSize     = 100
)

type Query struct {
	Page int
	Size int
}

func (q Query) offset() int { return (q.Page - 1) * q.Size }

// FromRequest returns nil when the caller sent neither ?page nor ?size, in
// which case list endpoints return the whole collection. Out of range values
// are clamped.
func FromRequest(c *gin.Context) *Query {
	rawPage, rawSize := c.Query("page"), c.Query("size")
	if rawPage == "" && rawSize == "" {
		return nil
	}
	q := Query{
		Page: atLeast(rawPage, DefaultPage),
		Size: atLeast(rawSize, DefaultSize),
	}
	if q.Size > MaxSize {
		q.Size = MaxSize
	}
	return &q
}

// Paginate counts the rows matched by db, then loads the requested page into dest.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}
	if err := db.Offset(q.offset()).Limit(q.Size).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}

	pages := int((total + int64(q.Size) - 1) / int64(q.Size))
	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   pages,
		Size:        q.Size,
		HasNextPage: q.Page < pages,
	}, nil
}

func atLeast(raw string, def int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
