package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"buyback-logistics/internal/config"
	domainSchedule "buyback-logistics/internal/domain/schedule"
	"buyback-logistics/internal/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// Publisher emits appointment events over MQTT for downstream consumers
// (CRM sync, SMS reminders). Delivery is best-effort: a broker outage never
// blocks or fails the booking flow.
type Publisher struct {
	client mqtt.Client
	topic  string
}

type appointmentEvent struct {
	Event         string    `json:"event"`
	AppointmentID string    `json:"appointment_id"`
	LeadID        string    `json:"lead_id"`
	Status        string    `json:"status"`
	SlotDate      string    `json:"slot_date,omitempty"`
	SlotStartTime string    `json:"slot_start_time,omitempty"`
	IsSameDay     bool      `json:"is_same_day"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewPublisher connects to the broker and returns a ready publisher.
func NewPublisher(cfg config.MQTTConfig) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.OnConnect = func(_ mqtt.Client) {
		logger.Info("Connected to MQTT broker", zap.String("broker", cfg.Broker))
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", zap.Error(err))
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect timed out for broker %s", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}

	return &Publisher{client: client, topic: cfg.Topic}, nil
}

// PublishAppointmentEvent serializes and publishes an appointment event.
// Failures are logged, never returned.
func (p *Publisher) PublishAppointmentEvent(event string, appt *domainSchedule.Appointment) {
	if appt == nil {
		return
	}

	payload := appointmentEvent{
		Event:         event,
		AppointmentID: appt.ID.String(),
		LeadID:        appt.LeadID,
		Status:        string(appt.Status),
		IsSameDay:     appt.IsSameDay,
		OccurredAt:    time.Now().UTC(),
	}
	if appt.Slot != nil {
		payload.SlotDate = appt.Slot.Date.Format(domainSchedule.DateFormat)
		payload.SlotStartTime = appt.Slot.StartTime
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal appointment event", zap.Error(err))
		return
	}

	topic := fmt.Sprintf("%s/%s", p.topic, event)
	token := p.client.Publish(topic, 1, false, data)
	go func() {
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			logger.Warn("Failed to publish appointment event",
				zap.String("topic", topic),
				zap.String("appointment_id", payload.AppointmentID),
				zap.Error(token.Error()),
			)
		}
	}()
}

// Close disconnects from the broker, allowing in-flight publishes to drain.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
