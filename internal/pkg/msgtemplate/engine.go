// Package msgtemplate renders the fixed alert message templates.
package msgtemplate

import (
	"sort"
	"strings"
)

// FallbackMessage is returned for unknown template types when no "message" variable is given.
const FallbackMessage = "Mensaje personalizado"

// Template is one entry of the catalogue.
type Template struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

var catalogue = []Template{
	{
		Type:  "payment_reminder",
		Title: "Recordatorio de Pago",
		Body: `Hola {tenant_name},

Te recordamos que el pago de tu alquiler de la propiedad "{property_title}" vence el {due_date}.

Monto: S/ {amount}

Por favor, realiza el pago a tiempo para evitar inconvenientes.

Saludos,
{owner_name}`,
	},
	{
		Type:  "contract_expiry",
		Title: "Renovación de Contrato",
		Body: `Hola {tenant_name},

Tu contrato de alquiler de la propiedad "{property_title}" vence el {expiry_date}.

Si deseas renovar el contrato, por favor contáctame para coordinar los detalles.

Saludos,
{owner_name}`,
	},
}

// Engine performs {key} substitution over the catalogue. The zero value is not usable; call New.
type Engine struct {
	templates map[string]string
}

func New() *Engine {
	e := &Engine{templates: make(map[string]string, len(catalogue))}
	for _, t := range catalogue {
		e.templates[t.Type] = t.Body
	}
	return e
}

// Render never fails. Placeholders without a variable are left untouched.
func (e *Engine) Render(templateType string, vars map[string]string) string {
	body, ok := e.templates[templateType]
	if !ok {
		if msg, ok := vars["message"]; ok {
			return msg
		}
		return FallbackMessage
	}
	if len(vars) == 0 {
		return body
	}
	// Substituted values are not rescanned, so a value containing "{x}" stays literal.
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(body)
}

// Templates returns a copy of the catalogue.
func (e *Engine) Templates() []Template {
	out := make([]Template, len(catalogue))
	copy(out, catalogue)
	return out
}
