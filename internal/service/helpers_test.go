package service

import (
	"context"
	"sync"

	"campus-finance-be/internal/entity"
)

type recordingPublisher struct {
	mu   sync.Mutex
	logs []*entity.AuditLog
}

func (p *recordingPublisher) PublishAudit(ctx context.Context, log *entity.AuditLog) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logs = append(p.logs, log)
}

func strPtr(s string) *string { return &s }

func newOperator(prodi, angkatan string) *entity.User {
	return &entity.User{Role: entity.UserRoleOperator, Name: "Operator " + prodi, Identifier: "OP" + prodi + angkatan, Prodi: strPtr(prodi), Angkatan: strPtr(angkatan), IsActive: true}
}
