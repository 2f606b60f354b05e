// Package notify mails customers about their orders.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"

	"github.com/Govind-619/ShopSphere/models"
	"github.com/Govind-619/ShopSphere/utils"
	"gopkg.in/gomail.v2"
)

// Notifier tells the customer about order placement and cancellation
type Notifier interface {
	OrderPlaced(ctx context.Context, o *models.Order) error
	OrderCancelled(ctx context.Context, o *models.Order) error
}

// Nop sends nothing
type Nop struct{}

func (Nop) OrderPlaced(ctx context.Context, o *models.Order) error    { return nil }
func (Nop) OrderCancelled(ctx context.Context, o *models.Order) error { return nil }

// MailConfig holds SMTP settings
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender delivers a composed message; *gomail.Dialer satisfies it
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailNotifier renders HTML mails and sends them over SMTP
type MailNotifier struct {
	from   string
	sender Sender
}

func NewMailNotifier(cfg MailConfig) *MailNotifier {
	return &MailNotifier{
		from:   cfg.From,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// NewMailNotifierWithSender is used when the transport is provided by the caller
func NewMailNotifierWithSender(from string, sender Sender) *MailNotifier {
	return &MailNotifier{from: from, sender: sender}
}

var placedTmpl = template.Must(template.New("placed").Parse(`
<h2>Thank you for your order!</h2>
<p>Your order <strong>{{.OrderNumber}}</strong> has been placed.</p>
<table>
{{range .Items}}<tr><td>{{.Name}}{{if .Size}} ({{.Size}}{{if .Color}}, {{.Color}}{{end}}){{end}}</td><td>x{{.Quantity}}</td><td>{{printf "%.2f" .LineTotal}}</td></tr>
{{end}}</table>
<p>Subtotal: {{printf "%.2f" .Subtotal}}<br>
Discount: {{printf "%.2f" .DiscountAmount}}<br>
GST: {{printf "%.2f" .GSTAmount}}<br>
Delivery: {{printf "%.2f" .DeliveryCharge}}<br>
<strong>Total: {{printf "%.2f" .TotalAmount}}</strong></p>
<p>Payment: {{.Payment.Method}} ({{.Payment.Status}})</p>
`))

var cancelledTmpl = template.Must(template.New("cancelled").Parse(`
<h2>Your order has been cancelled</h2>
<p>Order <strong>{{.OrderNumber}}</strong> was cancelled.{{if .CancellationReason}} Reason: {{.CancellationReason}}{{end}}</p>
{{if eq (print .Payment.Status) "REFUNDED"}}<p>A refund of {{printf "%.2f" .TotalAmount}} has been issued to your original payment method.</p>{{end}}
`))

func (n *MailNotifier) OrderPlaced(ctx context.Context, o *models.Order) error {
	return n.send(o, fmt.Sprintf("Order %s placed", o.OrderNumber), placedTmpl)
}

func (n *MailNotifier) OrderCancelled(ctx context.Context, o *models.Order) error {
	return n.send(o, fmt.Sprintf("Order %s cancelled", o.OrderNumber), cancelledTmpl)
}

func (n *MailNotifier) send(o *models.Order, subject string, tmpl *template.Template) error {
	if o.ContactEmail == "" {
		utils.LogDebug("No contact email on order %s, skipping mail", o.OrderNumber)
		return nil
	}
	var body bytes.Buffer
	if err := tmpl.Execute(&body, o); err != nil {
		return fmt.Errorf("render %s mail: %v", tmpl.Name(), err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", o.ContactEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// Recorder keeps the orders it was notified about
type Recorder struct {
	mu        sync.Mutex
	Placed    []string
	Cancelled []string
}

func (r *Recorder) OrderPlaced(ctx context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Placed = append(r.Placed, o.ID)
	return nil
}

func (r *Recorder) OrderCancelled(ctx context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Cancelled = append(r.Cancelled, o.ID)
	return nil
}

// Counts returns how many placed and cancelled notifications were recorded
func (r *Recorder) Counts() (placed, cancelled int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Placed), len(r.Cancelled)
}
