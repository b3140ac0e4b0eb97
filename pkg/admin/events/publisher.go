package events

import (
	"context"
	"time"

	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/pkg/logger"
	pkgEvents "campus-finance-be/pkg/events"
	pktNats "campus-finance-be/pkg/nats"
)

// Publisher mirrors committed audit log rows onto the event bus. Publishing is
// best effort: the audit_logs table stays the record of truth.
type Publisher interface {
	PublishAudit(ctx context.Context, log *entity.AuditLog)
}

type busPublisher interface {
	Publish(ctx context.Context, event pkgEvents.Event) error
}

// NatsPublisher implements Publisher using NATS. A nil bus turns it into a no-op
// so the app runs without NATS_URL.
type NatsPublisher struct {
	publisher busPublisher
	logger    logger.ILogger
}

func NewNatsPublisher(publisher *pktNats.Publisher, logger logger.ILogger) *NatsPublisher {
	p := &NatsPublisher{logger: logger}
	if publisher != nil {
		p.publisher = publisher
	}
	return p
}

func (p *NatsPublisher) PublishAudit(ctx context.Context, log *entity.AuditLog) {
	if p.publisher == nil || log == nil {
		return
	}

	data := make(map[string]interface{}, len(log.Payload)+3)
	for k, v := range log.Payload {
		data[k] = v
	}
	data["auditLogId"] = log.Id.String()
	data["actorId"] = log.UserId.String()

	occurredAt := log.CreatedAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	evt := pkgEvents.BaseEvent{
		Type:       string(log.Action),
		Data:       data,
		OccurredAt: occurredAt,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("AUDIT", "Failed to publish audit event", map[string]interface{}{
			"action": string(log.Action),
			"error":  err.Error(),
		})
	}
}
