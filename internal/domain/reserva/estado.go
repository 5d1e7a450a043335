// Package reserva contiene las reglas puras de reservas: normalización de estados,
// transiciones permitidas y cálculo de cupos de un tour.
package reserva

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Turismo-api/internal/domain/entity"
)

// alias grafías históricas encontradas en datos migrados, ya limpias (sin tildes,
// mayúsculas, sin separadores).
var alias = map[string]string{
	"PENDIENTE": entity.ReservaPendiente,
	"PENDING":   entity.ReservaPendiente,
	"ENESPERA":  entity.ReservaPendiente,
	"NUEVA":     entity.ReservaPendiente,

	"CONFIRMADA": entity.ReservaConfirmada,
	"CONFIRMADO": entity.ReservaConfirmada,
	"CONFIRMED":  entity.ReservaConfirmada,
	"ACEPTADA":   entity.ReservaConfirmada,

	"RECHAZADA": entity.ReservaRechazada,
	"RECHAZADO": entity.ReservaRechazada,
	"REJECTED":  entity.ReservaRechazada,
	"CANCELADA": entity.ReservaRechazada,
	"CANCELADO": entity.ReservaRechazada,
	"CANCELED":  entity.ReservaRechazada,
	"CANCELLED": entity.ReservaRechazada,

	"REPROGRAMADA": entity.ReservaReprogramada,
	"REPROGRAMADO": entity.ReservaReprogramada,
	"RESCHEDULED":  entity.ReservaReprogramada,

	"FINALIZADA": entity.ReservaFinalizada,
	"FINALIZADO": entity.ReservaFinalizada,
	"COMPLETADA": entity.ReservaFinalizada,
	"COMPLETADO": entity.ReservaFinalizada,
	"FINISHED":   entity.ReservaFinalizada,
}

var separadores = strings.NewReplacer(" ", "", "-", "", "_", "", ".", "")

// limpiar quita tildes, espacios y separadores y pasa a mayúsculas.
// Los transformers de x/text no son seguros para uso concurrente: se crean por llamada.
func limpiar(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}
	return separadores.Replace(cases.Upper(language.Und).String(out))
}

// NormalizarEstado devuelve el estado canónico para cualquier grafía conocida.
func NormalizarEstado(s string) (string, bool) {
	e, ok := alias[limpiar(s)]
	return e, ok
}

// EsTerminal indica si desde el estado no hay transición posible.
func EsTerminal(estado string) bool {
	e, ok := NormalizarEstado(estado)
	return ok && (e == entity.ReservaRechazada || e == entity.ReservaFinalizada)
}

// Grafias devuelve las grafías limpias (ver limpiar) que normalizan a canonico, ordenadas.
func Grafias(canonico string) []string {
	var out []string
	for g, e := range alias {
		if e == canonico {
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}
