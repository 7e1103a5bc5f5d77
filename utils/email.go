// utils/email.go
package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/chenyinghua/firework-shop/models"
)

// EmailService sends order notifications to the shop owner using SendGrid.
type EmailService struct {
	client *sendgrid.Client
	from   string
	to     string
}

// NewEmailService reads SENDGRID_API_KEY, EMAIL_SENDER and ORDER_NOTIFY_EMAIL
// from the environment. It returns nil when the key or recipient is missing;
// a nil service skips notifications.
func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	to := os.Getenv("ORDER_NOTIFY_EMAIL")
	if apiKey == "" || to == "" {
		return nil
	}
	from := os.Getenv("EMAIL_SENDER")
	if from == "" {
		from = "noreply@firework-shop.local"
	}
	return &EmailService{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
		to:     to,
	}
}

// SendOrderNotification emails a plain summary of the order sheet.
func (es *EmailService) SendOrderNotification(sheet models.OrderSheet) error {
	var lines strings.Builder
	for _, l := range sheet.Lines {
		fmt.Fprintf(&lines, "%s  ¥%.2f/%s × %d = ¥%.2f<br>", l.Name, l.Price, l.Unit, l.Quantity, l.Subtotal())
	}
	htmlContent := fmt.Sprintf(
		"<strong>新选货单 %s</strong><br>时间: %s<br><br>%s<br>合计: <strong>¥%.2f</strong>",
		sheet.ID,
		sheet.CreatedAt.Format("2006-01-02 15:04:05"),
		lines.String(),
		sheet.TotalPrice,
	)

	message := mail.NewSingleEmail(
		mail.NewEmail("烟花商店", es.from),
		"新选货单 "+sheet.ID,
		mail.NewEmail("", es.to),
		"新选货单 "+sheet.ID,
		htmlContent,
	)
	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send order notification: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("order notification rejected with status %d", resp.StatusCode)
	}
	return nil
}
