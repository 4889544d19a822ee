package notify

import (
	"fmt"

	"github.com/brbanco/go-account-opening/internal/classify"
	"github.com/brbanco/go-account-opening/internal/events"
	"github.com/brbanco/go-account-opening/internal/requests"
)

type americaStrategy struct{}

func (americaStrategy) Brand() requests.Brand { return requests.BrandAmerica }

func (americaStrategy) OpenedEmail(ev events.AccountOpened) (string, string) {
	subject := "Bem-vindo ao America! 🦅 Sua conta está aberta"
	body := fmt.Sprintf(
		"<html><body style='background-color: #007A33; color: white; padding: 20px;'>"+
			"<h1>🦅 Olá!</h1>"+
			"<p>Sua conta America foi aberta com sucesso!</p>"+
			"<p><strong>Número da conta:</strong> %s</p>"+
			"<p>Acesse o app America e aproveite sua nova conta!</p>"+
			"</body></html>",
		ev.AccountNumber)
	return subject, body
}

func (americaStrategy) OpenedSMS(ev events.AccountOpened) string {
	return fmt.Sprintf(
		"Olá! Sua conta America foi aberta com sucesso! 🦅 Conta: %s. Acesse o app!",
		ev.AccountNumber)
}

func (americaStrategy) OpenedPush(ev events.AccountOpened) (string, string) {
	return "Conta aberta! 🦅", "Sua conta America já está disponível no app!"
}

func (americaStrategy) RejectedEmail(ev events.Rejected, category classify.Category) (string, string) {
	subject := fmt.Sprintf("Solicitação de conta - America - %s", category.Title())
	body := fmt.Sprintf(
		"<html><body style='background-color: #007A33; color: white; padding: 20px;'>"+
			"<h1>🦅 Olá!</h1>"+
			"<p>Sua solicitação de conta America não foi aprovada.</p>"+
			"<p><strong>%s</strong></p>"+
			"<p>%s</p>"+
			"<p>Entre em contato conosco para mais informações ou tente novamente.</p>"+
			"</body></html>",
		category.Title(), category.Message())
	return subject, body
}

func (americaStrategy) RejectedSMS(ev events.Rejected, category classify.Category) string {
	return fmt.Sprintf("Olá! 🦅 %s. %s Entre em contato conosco.",
		category.Title(), category.Message())
}

func (americaStrategy) RejectedPush(ev events.Rejected, category classify.Category) (string, string) {
	title := fmt.Sprintf("Solicitação - %s", category.Title())
	body := fmt.Sprintf("%s Acesse o app America para mais informações.", category.Message())
	return title, body
}
