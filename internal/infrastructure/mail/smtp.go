package mail

import (
	"github.com/Aymix/whitecart/config"
	"gopkg.in/gomail.v2"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPMailer struct {
	sender string
	dialer dialer
}

func CreateSMTPMailer(config config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		sender: config.Sender,
		dialer: gomail.NewDialer(config.Server, config.Port, config.Sender, config.Password),
	}
}

func (m *SMTPMailer) Send(to string, subject string, htmlBody string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", m.sender)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(message)
}
