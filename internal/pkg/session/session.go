package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/zivana-montessori/core/internal/models"
	jwtpkg "github.com/zivana-montessori/core/internal/pkg/jwt"
	"gorm.io/gorm"
)

const DefaultTTL = 7 * 24 * time.Hour

// ErrNotFound is returned when revoking a session that is absent or already revoked.
var ErrNotFound = errors.New("session not found")

// Manager issues and checks admin sessions. Each JWT carries the id of a
// admin_sessions row and is only valid while that row is live.
type Manager struct {
	db     *gorm.DB
	signer *jwtpkg.Signer
	ttl    time.Duration
}

func NewManager(db *gorm.DB, signer *jwtpkg.Signer, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{db: db, signer: signer, ttl: ttl}
}

// Issue creates a DB session and signs a JWT bound to that session.
func (m *Manager) Issue(ctx context.Context, userID, ip, ua string) (string, *models.AdminSession, error) {
	s := &models.AdminSession{
		UserID:    userID,
		IP:        strings.TrimSpace(ip),
		UA:        strings.TrimSpace(ua),
		ExpiresAt: time.Now().Add(m.ttl),
	}
	if err := m.db.WithContext(ctx).Create(s).Error; err != nil {
		return "", nil, err
	}

	token, err := m.signer.Sign(userID, s.ID, m.ttl)
	if err != nil {
		_ = m.db.WithContext(ctx).Delete(s).Error
		return "", nil, err
	}
	return token, s, nil
}

// Verify parses the token and checks that its session is still live.
func (m *Manager) Verify(ctx context.Context, token string) (*jwtpkg.Claims, error) {
	claims, err := m.signer.Parse(token)
	if err != nil {
		return nil, err
	}
	if claims.SessionID == "" {
		return nil, jwtpkg.ErrInvalidToken
	}

	var count int64
	err = m.db.WithContext(ctx).Model(&models.AdminSession{}).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL AND expires_at > ?", claims.SessionID, claims.UserID, time.Now()).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}
	return claims, nil
}

// Touch bumps updated_at so the dashboard can show recent activity.
func (m *Manager) Touch(ctx context.Context, userID, sessionID string) {
	_ = m.db.WithContext(ctx).Model(&models.AdminSession{}).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL", sessionID, userID).
		Update("updated_at", time.Now()).Error
}

// Revoke ends one session.
func (m *Manager) Revoke(ctx context.Context, userID, sessionID string) error {
	now := time.Now()
	res := m.db.WithContext(ctx).Model(&models.AdminSession{}).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL", sessionID, userID).
		Update("revoked_at", &now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Cleanup deletes sessions that expired or were revoked, returning how many went.
func (m *Manager) Cleanup(ctx context.Context) (int64, error) {
	res := m.db.WithContext(ctx).
		Where("expires_at <= ? OR revoked_at IS NOT NULL", time.Now()).
		Delete(&models.AdminSession{})
	return res.RowsAffected, res.Error
}
