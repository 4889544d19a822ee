package notify

import (
	"fmt"

	"github.com/brbanco/go-account-opening/internal/classify"
	"github.com/brbanco/go-account-opening/internal/events"
	"github.com/brbanco/go-account-opening/internal/requests"
)

type azulStrategy struct{}

func (azulStrategy) Brand() requests.Brand { return requests.BrandAzul }

func (azulStrategy) OpenedEmail(ev events.AccountOpened) (string, string) {
	subject := "Bem-vindo à Azul! ✈️ Sua conta está aberta"
	body := fmt.Sprintf(
		"<html><body style='background-color: #0066CC; color: white; padding: 20px;'>"+
			"<h1>✈️ Olá!</h1>"+
			"<p>Sua conta Azul foi aberta com sucesso!</p>"+
			"<p><strong>Número da conta:</strong> %s</p>"+
			"<p>Acesse o app e comece a acumular milhas!</p>"+
			"</body></html>",
		ev.AccountNumber)
	return subject, body
}

func (azulStrategy) OpenedSMS(ev events.AccountOpened) string {
	return fmt.Sprintf(
		"Olá! Sua conta Azul foi aberta com sucesso! ✈️ Conta: %s. Acesse o app e comece a acumular milhas!",
		ev.AccountNumber)
}

func (azulStrategy) OpenedPush(ev events.AccountOpened) (string, string) {
	return "Conta aberta! ✈️", "Suas milhas já estão disponíveis no app Azul!"
}

func (azulStrategy) RejectedEmail(ev events.Rejected, category classify.Category) (string, string) {
	subject := fmt.Sprintf("Solicitação de conta - Azul - %s", category.Title())
	body := fmt.Sprintf(
		"<html><body style='background-color: #0066CC; color: white; padding: 20px;'>"+
			"<h1>✈️ Olá!</h1>"+
			"<p>Sua solicitação de conta Azul não foi aprovada.</p>"+
			"<p><strong>%s</strong></p>"+
			"<p>%s</p>"+
			"<p>Entre em contato conosco para mais informações ou tente novamente.</p>"+
			"</body></html>",
		category.Title(), category.Message())
	return subject, body
}

func (azulStrategy) RejectedSMS(ev events.Rejected, category classify.Category) string {
	return fmt.Sprintf("Olá! ✈️ %s. %s Entre em contato conosco.",
		category.Title(), category.Message())
}

func (azulStrategy) RejectedPush(ev events.Rejected, category classify.Category) (string, string) {
	title := fmt.Sprintf("Solicitação - %s", category.Title())
	body := fmt.Sprintf("%s Acesse o app Azul para mais informações.", category.Message())
	return title, body
}
