package dialogue

import (
	"fmt"
	"strings"

	"github.com/KevinCFreitas/controle-bot/internal/appointment"
	"github.com/KevinCFreitas/controle-bot/internal/session"
)

// FormLinks holds the intake form URLs offered from the menu shortcuts.
type FormLinks struct {
	Patient      string
	Psychologist string
}

func menuText() string {
	return strings.Join([]string{
		"👋 Olá! Seja bem-vindo(a) à *MindSync*.",
		"",
		"Posso te ajudar a *agendar sua primeira sessão* agora mesmo.",
		"Basta enviar *agendar* para começarmos, ou escolha uma opção:",
		"",
		"1️⃣ Sou *Paciente* (abrir formulário)",
		"2️⃣ Sou *Psicólogo(a)* (abrir formulário)",
		"",
		"Comandos úteis:",
		"• *menu* – voltar ao início",
		"• *cancelar* – cancelar o agendamento atual",
	}, "\n")
}

func cancelledText() string {
	return "❌ Agendamento cancelado. Se quiser recomeçar, digite *agendar*."
}

func askNameText() string {
	return "Ótimo! Vamos agendar sua sessão 😊\n\nQual é o seu *nome completo*?"
}

func retryNameText() string {
	return "Pode me dizer seu *nome completo*, por favor?"
}

func askPhoneText(name string) string {
	return fmt.Sprintf("Valeu, *%s*! 📱\nAgora me informe seu *telefone* (apenas números).", name)
}

func retryPhoneText() string {
	return "Hmm, esse telefone parece inválido. Envie apenas números (ex.: 11987654321)."
}

func shiftMenuText() string {
	return strings.Join([]string{
		"Perfeito! Agora me diga qual turno você prefere:",
		"",
		"1️⃣ *Manhã*",
		"2️⃣ *Tarde*",
		"3️⃣ *Noite*",
		"",
		"Digite o número do turno.",
	}, "\n")
}

func retryShiftText() string {
	return "Por favor, digite *1*, *2* ou *3* para escolher o turno."
}

func slotListText(shift appointment.Shift) string {
	var items strings.Builder
	for _, s := range Slots(shift) {
		items.WriteString("▪ ")
		items.WriteString(s)
		items.WriteString("\n")
	}
	return fmt.Sprintf(
		"Esses são os horários disponíveis *à %s* nesta semana:\n\n%s\nDigite o *horário exato* (ex.: 14:00).",
		shiftLabels[shift], strings.TrimRight(items.String(), "\n")+"\n",
	)
}

func retrySlotText(shift appointment.Shift) string {
	return "Esse horário não está na lista. Escolha um dos horários informados.\n\n" + slotListText(shift)
}

func summaryText(d session.Draft) string {
	return fmt.Sprintf(
		"Confere pra mim, por favor:\n\n👤 *Nome:* %s\n📱 *Telefone:* %s\n🕒 *Turno:* %s\n⏰ *Horário:* %s\n\nSe estiver tudo certo, responda *confirmar*.\nPara alterar, responda *cancelar* e comece novamente.",
		d.Name, d.Phone, shiftLabels[d.Shift], d.TimeSlot,
	)
}

func retryConfirmText() string {
	return "Para concluir, responda *confirmar* ou *cancelar* para recomeçar."
}

func confirmedText(d session.Draft) string {
	return fmt.Sprintf(
		"✅ *Agendamento confirmado!*\n\n👤 %s\n📱 %s\n🕒 %s\n⏰ %s\n\nNossa equipe vai te chamar por aqui para finalizar os detalhes. Qualquer coisa, digite *menu*.",
		d.Name, d.Phone, shiftLabels[d.Shift], d.TimeSlot,
	)
}

func directConfirmedText(name, phone, datetime string) string {
	return fmt.Sprintf(
		"✅ *Agendamento confirmado!*\n\n👤 %s\n📱 %s\n📅 %s\n\nNossa equipe vai te chamar por aqui para finalizar os detalhes. Qualquer coisa, digite *menu*.",
		name, phone, datetime,
	)
}

func persistFailedText() string {
	return "😅 Opa, algo deu errado aqui. Tente digitar *agendar* de novo ou *menu*."
}

func fallbackText() string {
	return "Não entendi. Digite *menu* para ver as opções ou *agendar* para começar."
}

func patientFormText(url string) string {
	return fmt.Sprintf("📝 Formulário do *Paciente*: %s\n\nSe preferir, digite *agendar* para realizar o agendamento por aqui mesmo.", url)
}

func psychologistFormText(url string) string {
	return fmt.Sprintf("🧑‍⚕️ Formulário do *Psicólogo(a)*: %s\n\nSe quiser falar com a gente por aqui, posso te ajudar 😉", url)
}

func directUsageText(reason string) string {
	return fmt.Sprintf(
		"%s\n\nPara agendar direto, envie: *nome|telefone|data* no formato:\nMaria Silva|11987654321|2025-08-12 15:00",
		reason,
	)
}
