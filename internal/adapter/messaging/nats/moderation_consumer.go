package nats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/artmarket/artwork-service/internal/artwork/domain"
	"github.com/artmarket/artwork-service/internal/artwork/usecase"
)

const moderationSubject = "moderation.result"

// verdictMessage is the wire shape published by the moderation pipeline.
type verdictMessage struct {
	OwnerID    string `json:"owner_id"`
	ListingID  string `json:"listing_id"`
	Verdict    string `json:"verdict"`
	OwnerEmail string `json:"owner_email,omitempty"`
	Labels     []struct {
		Label      string  `json:"Label"`
		Confidence float64 `json:"Confidence"`
	} `json:"labels,omitempty"`
}

// ModerationConsumer subscribes to moderation verdicts and applies them to
// pending listings.
type ModerationConsumer struct {
	conn   *nats.Conn
	uc     *usecase.ModerationUsecase
	logger *zap.Logger
	sub    *nats.Subscription
}

func NewModerationConsumer(url string, uc *usecase.ModerationUsecase, logger *zap.Logger) (*ModerationConsumer, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &ModerationConsumer{conn: conn, uc: uc, logger: logger}, nil
}

func (c *ModerationConsumer) Start() error {
	sub, err := c.conn.Subscribe(moderationSubject, c.handle)
	if err != nil {
		return err
	}
	c.sub = sub
	c.logger.Info("moderation consumer started", zap.String("subject", moderationSubject))
	return nil
}

func (c *ModerationConsumer) handle(msg *nats.Msg) {
	var m verdictMessage
	if err := json.Unmarshal(msg.Data, &m); err != nil {
		c.logger.Warn("moderation consumer: undecodable message dropped", zap.Error(err))
		return
	}

	status, ok := domain.ParseStatus(m.Verdict)
	if !ok {
		c.logger.Warn("moderation consumer: unknown verdict dropped",
			zap.String("verdict", m.Verdict), zap.String("listing_id", m.ListingID))
		return
	}

	verdict := usecase.Verdict{
		OwnerID:    m.OwnerID,
		ListingID:  m.ListingID,
		Status:     status,
		OwnerEmail: m.OwnerEmail,
	}
	for _, l := range m.Labels {
		verdict.Labels = append(verdict.Labels, domain.ModerationLabel{Label: l.Label, Confidence: l.Confidence})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.uc.ApplyVerdict(ctx, verdict); err != nil {
		c.logger.Error("moderation consumer: verdict rejected",
			zap.String("owner_id", m.OwnerID),
			zap.String("listing_id", m.ListingID),
			zap.String("verdict", m.Verdict),
			zap.Error(err))
	}
}

func (c *ModerationConsumer) Close() {
	if c.sub != nil {
		_ = c.sub.Unsubscribe()
	}
	c.conn.Close()
}
