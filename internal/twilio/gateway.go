// Package twilio adapts the Twilio WhatsApp channel to the conversation
// engine: outbound text delivery and inbound webhook parsing.
package twilio

import (
	"net/http"
	"strconv"
	"strings"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/leeedrea/whatsapp-receipt-tracker/internal/domain"
)

const whatsappPrefix = "whatsapp:"

// Gateway sends plain-text WhatsApp messages through the Twilio REST API.
type Gateway struct {
	client *twilio.RestClient
	from   string // the bot's WhatsApp number, without the whatsapp: prefix
	log    *zap.Logger
}

// NewGateway builds a Twilio-backed gateway.
func NewGateway(accountSID, authToken, from string, log *zap.Logger) *Gateway {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &Gateway{
		client: client,
		from:   strings.TrimPrefix(from, whatsappPrefix),
		log:    log,
	}
}

// SendText delivers one message to the recipient. Delivery failures are
// logged and swallowed: a lost reply never rolls back ledger state.
func (g *Gateway) SendText(to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetFrom(whatsappPrefix + g.from)
	params.SetTo(whatsappPrefix + strings.TrimPrefix(to, whatsappPrefix))
	params.SetBody(body)

	if _, err := g.client.Api.CreateMessage(params); err != nil {
		g.log.Error("twilio send failed", zap.Error(err), zap.String("to", to))
		return err
	}
	return nil
}

// ParseInbound extracts a domain event from a Twilio webhook POST.
// Only the first media reference is used; additional attachments in the
// same event are ignored. ok is false when the form carries no sender.
func ParseInbound(r *http.Request) (domain.Inbound, bool) {
	if err := r.ParseForm(); err != nil {
		return domain.Inbound{}, false
	}

	from := strings.TrimPrefix(r.FormValue("From"), whatsappPrefix)
	if from == "" {
		return domain.Inbound{}, false
	}

	in := domain.Inbound{
		From: from,
		Body: r.FormValue("Body"),
	}
	if n, err := strconv.Atoi(r.FormValue("NumMedia")); err == nil && n > 0 {
		in.ImageURL = r.FormValue("MediaUrl0")
	}
	return in, true
}
