package notify

import (
	"fmt"

	"github.com/brbanco/go-account-opening/internal/classify"
	"github.com/brbanco/go-account-opening/internal/events"
	"github.com/brbanco/go-account-opening/internal/requests"
)

type flamengoStrategy struct{}

func (flamengoStrategy) Brand() requests.Brand { return requests.BrandFlamengo }

func (flamengoStrategy) OpenedEmail(ev events.AccountOpened) (string, string) {
	subject := "Bem-vindo ao Flamengo! 🏴‍☠️ Sua conta está aberta"
	body := fmt.Sprintf(
		"<html><body style='background-color: #C8102E; color: white; padding: 20px;'>"+
			"<h1>🏴‍☠️ Olá, torcedor rubro-negro!</h1>"+
			"<p>Sua conta foi aberta com sucesso!</p>"+
			"<p><strong>Número da conta:</strong> %s</p>"+
			"<p>Acesse o app do Flamengo e aproveite todos os benefícios!</p>"+
			"</body></html>",
		ev.AccountNumber)
	return subject, body
}

func (flamengoStrategy) OpenedSMS(ev events.AccountOpened) string {
	return fmt.Sprintf(
		"Olá, torcedor rubro-negro! 🏴‍☠️ Sua conta Flamengo foi aberta com sucesso! Conta: %s. Acesse o app!",
		ev.AccountNumber)
}

func (flamengoStrategy) OpenedPush(ev events.AccountOpened) (string, string) {
	return "Conta aberta! 🏴‍☠️", "Agora você pode aproveitar todos os benefícios do Flamengo!"
}

func (flamengoStrategy) RejectedEmail(ev events.Rejected, category classify.Category) (string, string) {
	subject := fmt.Sprintf("Solicitação de conta - Flamengo - %s", category.Title())
	body := fmt.Sprintf(
		"<html><body style='background-color: #C8102E; color: white; padding: 20px;'>"+
			"<h1>🏴‍☠️ Olá, torcedor rubro-negro!</h1>"+
			"<p>Infelizmente sua solicitação de conta Flamengo não foi aprovada.</p>"+
			"<p><strong>%s</strong></p>"+
			"<p>%s</p>"+
			"<p>Entre em contato conosco para mais informações ou tente novamente.</p>"+
			"</body></html>",
		category.Title(), category.Message())
	return subject, body
}

func (flamengoStrategy) RejectedSMS(ev events.Rejected, category classify.Category) string {
	return fmt.Sprintf("Olá, torcedor rubro-negro! 🏴‍☠️ %s. %s Entre em contato conosco.",
		category.Title(), category.Message())
}

func (flamengoStrategy) RejectedPush(ev events.Rejected, category classify.Category) (string, string) {
	title := fmt.Sprintf("Solicitação - %s", category.Title())
	body := fmt.Sprintf("%s Acesse o app Flamengo para mais informações.", category.Message())
	return title, body
}
