package services

import (
	"fmt"

	"trendora/config"
	"trendora/models"

	"gopkg.in/gomail.v2"
)

type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService() (*EmailService, error) {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		return nil, fmt.Errorf("SMTP configuration missing")
	}

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	return &EmailService{dialer: dialer, from: cfg.SMTPFrom}, nil
}

func (s *EmailService) SendOrderConfirmation(toEmail string, order *models.Order) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Order Confirmation #%d - Trendora", order.ID))

	itemRows := ""
	for _, item := range order.Items {
		itemRows += fmt.Sprintf(`<tr><td style="padding: 8px;">#%d</td><td style="padding: 8px;">x%d</td><td style="padding: 8px; text-align: right;">%.2f %s</td></tr>`,
			item.ProductID, item.Quantity, item.Price, order.Currency)
	}

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        .header { text-align: center; margin-bottom: 30px; }
        .logo { font-size: 24px; font-weight: bold; color: #2563eb; }
        .order-box { background-color: #eff6ff; padding: 20px; margin: 20px 0; border-radius: 8px; }
        .items { width: 100%%; border-collapse: collapse; }
        .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <div class="logo">Trendora</div>
        </div>
        <h2 style="color: #333;">Order Confirmation</h2>
        <p>Thank you for your order!</p>

        <div class="order-box">
            <p><strong>Order Number:</strong> #%d</p>
            <p><strong>Total Amount:</strong> %.2f %s</p>
            <table class="items">%s</table>
        </div>

        <p>Your order has been received and is being prepared for shipping. We'll notify you once it is on its way.</p>

        <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee;">
            <p style="color: #666; font-size: 14px;">Thank you for shopping with us!<br>Trendora Team</p>
        </div>

        <div class="footer">
            <p>This is an automated email. Please do not reply.</p>
        </div>
    </div>
</body>
</html>
	`, order.ID, order.Amount, order.Currency, itemRows)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
