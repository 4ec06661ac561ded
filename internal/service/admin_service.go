package service

import (
	"context"
	"errors"
	"os"
	"time"

	"clinic-voice-be/internal/dto"
	"clinic-voice-be/internal/pkg/logger"
	"clinic-voice-be/internal/pkg/serverutils"
	"clinic-voice-be/pkg/session"

	"github.com/golang-jwt/jwt/v5"
)

type IAdminService interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
	ListSessions(ctx context.Context) ([]*dto.SessionSummaryResponse, error)
	GetLogs(level string, limit, offset int) ([]logger.LogEntry, error)
}

type adminService struct {
	sessions *session.Manager
	logger   logger.ILogger
}

func NewAdminService(sessions *session.Manager, logger logger.ILogger) IAdminService {
	return &adminService{sessions: sessions, logger: logger}
}

func (s *adminService) Login(_ context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return nil, errors.New("admin login is not configured")
	}
	if req.Username != username || req.Password != password {
		return nil, errors.New("invalid credentials")
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	claims := jwt.MapClaims{
		"sub":  req.Username,
		"role": "admin",
		"exp":  expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(serverutils.JwtSecret())
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin", "admin login", map[string]interface{}{"username": req.Username})
	return &dto.AdminLoginResponse{Token: signedToken, ExpiresAt: expiresAt}, nil
}

func (s *adminService) ListSessions(ctx context.Context) ([]*dto.SessionSummaryResponse, error) {
	sessions, err := s.sessions.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*dto.SessionSummaryResponse, 0, len(sessions))
	for _, sess := range sessions {
		summary := &dto.SessionSummaryResponse{
			SessionId:         sess.ID,
			VerificationState: string(sess.Verification.State),
			TurnCount:         len(sess.History),
			CreatedAt:         sess.CreatedAt,
			LastActiveAt:      sess.LastActiveAt,
			ExpiresAt:         sess.ExpiresAt,
		}
		if sess.PatientContext != nil {
			summary.PatientName = sess.PatientContext.DisplayName
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *adminService) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return s.logger.GetLogs(level, limit, offset)
}
