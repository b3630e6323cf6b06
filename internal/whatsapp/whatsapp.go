package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ddreams3d/quoter-service/internal/model"
)

// Summary is the shareable hand-off for one quote.
type Summary struct {
	Message string `json:"message"`
	Link    string `json:"link"`
}

// Build formats the customer greeting and, when a phone is on file, the
// wa.me deep link carrying it.
func Build(quote model.Quote) Summary {
	client := strings.TrimSpace(quote.ClientName)
	if client == "" {
		client = "cliente"
	}
	project := strings.TrimSpace(quote.ProjectName)
	if project == "" {
		project = "tu proyecto"
	}

	message := fmt.Sprintf("Hola %s! Tu cotización \"%s\" está lista: total S/ %.2f", client, project, quote.TotalBilled)

	summary := Summary{Message: message}
	if phone := normalizePhone(quote.ClientPhone); phone != "" {
		summary.Link = fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(message))
	}
	return summary
}

// normalizePhone strips everything but digits. wa.me expects the number in
// international format without plus sign or separators.
func normalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}
