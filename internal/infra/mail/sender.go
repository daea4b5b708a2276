package mail

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// AlertSender avisa a operação por email quando todas as camadas de
// persistência falharam de uma vez. Não participa do caminho feliz.
type AlertSender struct {
	Host     string
	Port     int
	User     string
	Password string
	To       string
}

func NewAlertSender(host string, port int, user, password, to string) *AlertSender {
	return &AlertSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		To:       to,
	}
}

func (s *AlertSender) SendTierFailureAlert(operation string, cause error) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.User)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", "⚠️ CRM: todas as camadas de persistência falharam")
	m.SetBody("text/plain", fmt.Sprintf(
		"Operação: %s\nHorário: %s\nCausa: %v\n\nA UI segue de pé, mas nenhuma camada aceitou a escrita.",
		operation, time.Now().Format(time.RFC3339), cause,
	))

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar alerta SMTP: %w", err)
	}
	return nil
}
