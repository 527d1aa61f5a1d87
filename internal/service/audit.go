package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lkd-web/kurs/internal/model"
	"github.com/lkd-web/kurs/internal/repository"
)

// maxAuditMessageLen caps stored messages; long course names must not grow
// the log table unbounded.
const maxAuditMessageLen = 200

// AuditService writes the append-only action log. Every workflow mutation
// records who did what from where. Failures are logged and swallowed: a full
// audit table must never block a user-facing operation.
type AuditService struct {
	repo repository.ActionLogRepository
}

func NewAuditService(repo repository.ActionLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record appends an audit entry of the form
// "<message>. user='<actor>' remote_addr='<addr>'".
func (s *AuditService) Record(message, actor, remoteAddr string) {
	full := fmt.Sprintf("%s. user='%s' remote_addr='%s'", message, actor, remoteAddr)
	if len(full) > maxAuditMessageLen {
		full = full[:maxAuditMessageLen]
	}

	entry := &model.ActionLog{
		ID:      uuid.New().String(),
		Date:    time.Now(),
		Message: full,
	}

	err := s.repo.Create(entry)
	if err != nil {
		slog.Error("failed to write action log", "error", err, "message", message)
	}
}

// Recent returns the newest log entries for the admin audit view.
func (s *AuditService) Recent(limit int) ([]*model.ActionLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.Recent(limit)
}
