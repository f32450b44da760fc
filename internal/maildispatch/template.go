// README: Typed email templates; parsed once, rendered from structs.
package maildispatch

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"
)

// BookingConfirmation feeds the customer confirmation email.
type BookingConfirmation struct {
	CustomerName   string
	Reference      string
	PickupAddress  string
	DropoffAddress string
	PickupTime     string
	Passengers     int
	Price          string
}

// BookingAlert feeds the internal dispatch notification.
type BookingAlert struct {
	Reference      string
	CustomerName   string
	CustomerPhone  string
	PickupAddress  string
	DropoffAddress string
	PickupTime     string
	Price          string
}

const bookingConfirmationHTML = `<html>
<body style="font-family: Arial, sans-serif; color: #222;">
<h2>Votre réservation est confirmée</h2>
<p>Bonjour {{.CustomerName}},</p>
<p>Nous avons bien enregistré votre course <strong>{{.Reference}}</strong>.</p>
<table>
<tr><td>Départ&nbsp;:</td><td>{{.PickupAddress}}</td></tr>
<tr><td>Arrivée&nbsp;:</td><td>{{.DropoffAddress}}</td></tr>
<tr><td>Heure de prise en charge&nbsp;:</td><td>{{.PickupTime}}</td></tr>
<tr><td>Passagers&nbsp;:</td><td>{{.Passengers}}</td></tr>
<tr><td>Prix estimé&nbsp;:</td><td><strong>{{.Price}}</strong></td></tr>
</table>
<p>Votre chauffeur vous attendra à l'adresse indiquée. À bientôt&nbsp;!</p>
</body>
</html>`

const bookingAlertHTML = `<html>
<body style="font-family: Arial, sans-serif; color: #222;">
<h2>Nouvelle réservation {{.Reference}}</h2>
<table>
<tr><td>Client&nbsp;:</td><td>{{.CustomerName}} ({{.CustomerPhone}})</td></tr>
<tr><td>Départ&nbsp;:</td><td>{{.PickupAddress}}</td></tr>
<tr><td>Arrivée&nbsp;:</td><td>{{.DropoffAddress}}</td></tr>
<tr><td>Heure&nbsp;:</td><td>{{.PickupTime}}</td></tr>
<tr><td>Prix&nbsp;:</td><td>{{.Price}}</td></tr>
</table>
</body>
</html>`

// Renderer parses templates once and keeps them in a mutex-guarded cache.
// Data is a typed struct, so a template referencing a field that does not
// exist fails loudly at render instead of silently substituting nothing.
// It is the booking workflow's entry point into the queue: callers render a
// typed payload into a Message and hand it to Service.Enqueue.
type Renderer struct {
	mu    sync.Mutex
	cache map[string]*template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{cache: make(map[string]*template.Template)}
}

func (r *Renderer) RenderBookingConfirmation(to string, d BookingConfirmation) (Message, error) {
	body, err := r.render("booking_confirmation", bookingConfirmationHTML, d)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       []string{to},
		Subject:  fmt.Sprintf("Confirmation de votre réservation %s", d.Reference),
		HTML:     body,
		Template: "booking_confirmation",
	}, nil
}

func (r *Renderer) RenderBookingAlert(to string, d BookingAlert) (Message, error) {
	body, err := r.render("booking_alert", bookingAlertHTML, d)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       []string{to},
		Subject:  fmt.Sprintf("Nouvelle réservation %s", d.Reference),
		HTML:     body,
		Template: "booking_alert",
	}, nil
}

func (r *Renderer) render(name, src string, data any) (string, error) {
	r.mu.Lock()
	tmpl, ok := r.cache[name]
	if !ok {
		var err error
		tmpl, err = template.New(name).Parse(src)
		if err != nil {
			r.mu.Unlock()
			return "", fmt.Errorf("parse template %s: %w", name, err)
		}
		r.cache[name] = tmpl
	}
	r.mu.Unlock()

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}
