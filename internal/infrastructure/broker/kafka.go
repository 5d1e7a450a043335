// Package broker publicación de eventos de dominio en Kafka.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/Turismo-api/internal/application/ports"
	"github.com/jhoicas/Turismo-api/pkg/metrics"
)

var (
	_ ports.EventPublisher = (*Producer)(nil)
	_ ports.EventPublisher = (*LogPublisher)(nil)
)

// Producer publica eventos como JSON con la entidad como clave (orden por entidad).
// La escritura es asíncrona: Publish solo encola y los fallos se reportan en completado.
type Producer struct {
	writer *kafka.Writer
	log    zerolog.Logger
}

// NewProducer crea el productor Kafka.
func NewProducer(brokers []string, topic string, log zerolog.Logger) *Producer {
	p := &Producer{log: log}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
		Async:        true,
		Completion:   p.completado,
	}
	return p
}

// Publish serializa y encola el evento.
func (p *Producer) Publish(ctx context.Context, evt ports.DomainEvent) error {
	msg, err := mensaje(evt)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("escribir en kafka: %w", err)
	}
	return nil
}

func mensaje(evt ports.DomainEvent) (kafka.Message, error) {
	value, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal evento: %w", err)
	}
	return kafka.Message{
		Key:   []byte(evt.EntidadID),
		Value: value,
		Time:  evt.Ocurrido,
		Headers: []kafka.Header{
			{Key: "tipo", Value: []byte(evt.Tipo)},
		},
	}, nil
}

func (p *Producer) completado(msgs []kafka.Message, err error) {
	for _, m := range msgs {
		if err != nil {
			metrics.NotificacionesFallidasTotal.WithLabelValues("kafka").Inc()
			p.log.Error().Err(err).Str("tipo", tipoDe(m)).Str("entidad_id", string(m.Key)).Msg("evento no publicado")
			continue
		}
		p.log.Debug().Str("tipo", tipoDe(m)).Str("entidad_id", string(m.Key)).Msg("evento publicado")
	}
}

func tipoDe(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == "tipo" {
			return string(h.Value)
		}
	}
	return ""
}

// Close cierra el writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// LogPublisher solo registra el evento en el log (sin brokers configurados).
type LogPublisher struct {
	log zerolog.Logger
}

// NewLogPublisher construye el publicador de log.
func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

// Publish registra el evento.
func (p *LogPublisher) Publish(_ context.Context, evt ports.DomainEvent) error {
	p.log.Debug().Str("tipo", evt.Tipo).Str("entidad_id", evt.EntidadID).
		Str("estado", evt.Estado).Msg("evento de dominio")
	return nil
}
