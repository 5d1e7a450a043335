// Package mail notificaciones por correo a clientes.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Turismo-api/internal/application/ports"
	"github.com/jhoicas/Turismo-api/pkg/config"
)

var (
	_ ports.Notificador = (*SMTPNotificador)(nil)
	_ ports.Notificador = (*LogNotificador)(nil)
)

var asuntos = map[string]string{
	"confirmar":   "Tu reserva fue confirmada",
	"rechazar":    "Tu reserva fue rechazada",
	"reprogramar": "Tu reserva fue reprogramada",
	"finalizar":   "Gracias por viajar con nosotros",
}

var plantilla = template.Must(template.New("reserva").Parse(`<!DOCTYPE html>
<html><body>
<p>Hola {{.Cliente.Nombre}},</p>
<p>Tu reserva <strong>{{.Reserva.ID}}</strong> ahora está en estado <strong>{{.Reserva.Estado}}</strong>.</p>
<p>Fecha: {{.Reserva.Fecha.Format "02/01/2006"}}<br>
Personas: {{.Reserva.MayoresEdad}} adultos, {{.Reserva.MenoresEdad}} menores<br>
Total: {{.Reserva.Total.StringFixed 2}}</p>
</body></html>`))

// Asunto devuelve el asunto del correo para una acción.
func Asunto(accion string) string {
	if s, ok := asuntos[accion]; ok {
		return s
	}
	return "Actualización de tu reserva"
}

// Cuerpo renderiza el HTML del correo.
func Cuerpo(n ports.NotificacionReserva) (string, error) {
	var buf bytes.Buffer
	if err := plantilla.Execute(&buf, n); err != nil {
		return "", fmt.Errorf("render correo: %w", err)
	}
	return buf.String(), nil
}

// SMTPNotificador envía correos con gomail.
type SMTPNotificador struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPNotificador construye el notificador con la configuración SMTP.
func NewSMTPNotificador(cfg config.SMTPConfig) *SMTPNotificador {
	return &SMTPNotificador{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// NotificarReserva envía el correo al cliente. Sin email del cliente no hace nada.
func (s *SMTPNotificador) NotificarReserva(ctx context.Context, n ports.NotificacionReserva) error {
	if n.Cliente == nil || n.Cliente.Email == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := Cuerpo(n)
	if err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetAddressHeader("To", n.Cliente.Email, n.Cliente.Nombre)
	m.SetHeader("Subject", Asunto(n.Accion))
	m.SetBody("text/html", body)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

// LogNotificador registra la notificación sin enviarla (SMTP_HOST vacío).
type LogNotificador struct {
	log zerolog.Logger
}

// NewLogNotificador construye el notificador de log.
func NewLogNotificador(log zerolog.Logger) *LogNotificador {
	return &LogNotificador{log: log}
}

// NotificarReserva registra el correo que se habría enviado.
func (l *LogNotificador) NotificarReserva(_ context.Context, n ports.NotificacionReserva) error {
	ev := l.log.Info().Str("accion", n.Accion).Str("asunto", Asunto(n.Accion))
	if n.Reserva != nil {
		ev = ev.Str("reserva_id", n.Reserva.ID).Str("estado", n.Reserva.Estado)
	}
	if n.Cliente != nil {
		ev = ev.Str("email", n.Cliente.Email)
	}
	ev.Msg("notificación de reserva (sin SMTP)")
	return nil
}
