// Package wompi firma de checkout y verificación de eventos de la pasarela Wompi.
package wompi

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/Turismo-api/internal/application/pagos"
	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/pkg/config"
)

var _ pagos.Pasarela = (*Client)(nil)

// Client adaptador de Wompi con las llaves de la cuenta.
type Client struct {
	publicKey       string
	integritySecret string
	eventsSecret    string
	moneda          string
}

// NewClient construye el adaptador.
func NewClient(cfg config.WompiConfig) *Client {
	moneda := cfg.Currency
	if moneda == "" {
		moneda = "COP"
	}
	return &Client{
		publicKey:       cfg.PublicKey,
		integritySecret: cfg.IntegritySecret,
		eventsSecret:    cfg.EventsSecret,
		moneda:          moneda,
	}
}

// PublicKey llave pública del comercio.
func (c *Client) PublicKey() string { return c.publicKey }

// Moneda moneda de los cobros.
func (c *Client) Moneda() string { return c.moneda }

// FirmaIntegridad sha256(referencia + monto_en_centavos + moneda + secreto_integridad) en hex.
func (c *Client) FirmaIntegridad(referencia string, montoEnCentavos int64, moneda string) string {
	return sha256Hex(referencia + strconv.FormatInt(montoEnCentavos, 10) + moneda + c.integritySecret)
}

// Evento cuerpo del webhook.
type Evento struct {
	Event       string         `json:"event"`
	Data        map[string]any `json:"data"`
	Environment string         `json:"environment"`
	Signature   struct {
		Properties []string `json:"properties"`
		Checksum   string   `json:"checksum"`
	} `json:"signature"`
	Timestamp json.Number `json:"timestamp"`
	SentAt    string      `json:"sent_at"`
}

// ParseEvento decodifica el cuerpo conservando los números tal como llegaron.
func ParseEvento(body []byte) (*Evento, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var evt Evento
	if err := dec.Decode(&evt); err != nil {
		return nil, domain.NewValidationError("body", "evento con formato inválido")
	}
	if evt.Data == nil || evt.Signature.Checksum == "" || evt.Timestamp == "" {
		return nil, domain.NewValidationError("body", "evento incompleto")
	}
	return &evt, nil
}

// Checksum calcula sha256(valores de signature.properties tomados de data + timestamp + secreto).
func Checksum(evt *Evento, eventsSecret string) string {
	var b strings.Builder
	for _, prop := range evt.Signature.Properties {
		b.WriteString(valorPropiedad(evt.Data, prop))
	}
	b.WriteString(evt.Timestamp.String())
	b.WriteString(eventsSecret)
	return sha256Hex(b.String())
}

// VerificarEvento parsea el webhook, valida el checksum y extrae la transacción.
func (c *Client) VerificarEvento(body []byte) (*pagos.EventoTransaccion, error) {
	evt, err := ParseEvento(body)
	if err != nil {
		return nil, err
	}
	if c.eventsSecret == "" {
		return nil, fmt.Errorf("secreto de eventos no configurado: %w", domain.ErrInvalidSignature)
	}
	esperado := Checksum(evt, c.eventsSecret)
	recibido := strings.ToLower(evt.Signature.Checksum)
	if subtle.ConstantTimeCompare([]byte(esperado), []byte(recibido)) != 1 {
		return nil, domain.ErrInvalidSignature
	}
	out := &pagos.EventoTransaccion{
		Evento:        evt.Event,
		TransaccionID: valorPropiedad(evt.Data, "transaction.id"),
		Referencia:    valorPropiedad(evt.Data, "transaction.reference"),
		Estado:        valorPropiedad(evt.Data, "transaction.status"),
		Metodo:        valorPropiedad(evt.Data, "transaction.payment_method_type"),
		Moneda:        valorPropiedad(evt.Data, "transaction.currency"),
	}
	if out.TransaccionID == "" || out.Referencia == "" {
		return nil, domain.NewValidationError("data.transaction", "faltan id o reference")
	}
	if v := valorPropiedad(evt.Data, "transaction.amount_in_cents"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, domain.NewValidationError("data.transaction.amount_in_cents", "no es un entero")
		}
		out.MontoEnCentavos = n
	}
	return out, nil
}

// valorPropiedad recorre data con una ruta "a.b.c" y devuelve el valor como texto.
func valorPropiedad(data map[string]any, ruta string) string {
	var actual any = data
	for _, parte := range strings.Split(ruta, ".") {
		m, ok := actual.(map[string]any)
		if !ok {
			return ""
		}
		actual = m[parte]
	}
	switch v := actual.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
