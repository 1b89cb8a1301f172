package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/GibaTrindade/bot-seplag/internal/domain"
)

// User-facing texts. Register and emoji follow the WhatsApp bot voice.
const (
	msgWelcome = "🧾 Olá, sou Horácio, o bot dinossauro.\nDigite seu *CPF* (somente números):"

	msgCPFInvalid   = "❌ CPF inválido. Tente novamente:"
	msgCPFConfirmed = "✅ CPF verificado!"

	msgInvalidOption = "❌ Opção inválida. Tente novamente."

	msgContact = "📞 Fale com o secretário: (81) 99999-9999"

	msgScheduleFailure = "❌ Erro ao buscar a carga horária. Verifique o CPF ou tente novamente mais tarde."
	msgCoursesFailure  = "❌ Erro ao buscar os cursos disponíveis. Tente novamente mais tarde."
	msgNoCourses       = "📭 Nenhum curso disponível no momento."
	msgQuoteFailure    = "⚠️ Erro ao buscar uma frase. Tente novamente mais tarde."

	msgAskYear       = "📅 Digite o *ANO* da agenda (ex: 2025):"
	msgYearInvalid   = "❌ Ano inválido. Digite 4 dígitos (ex: 2025)."
	msgAskMonth      = "📅 Agora digite o *MÊS* (1-12):"
	msgMonthInvalid  = "❌ Mês inválido. Digite um número entre 1 e 12."
	msgAgendaFailure = "❌ Não consegui baixar a agenda. Verifique o mês/ano ou tente de novo."

	msgAskParliamentarian = "🔎 Digite o *nome* (ou parte do nome) do parlamentar:"
	msgNoCandidates       = "📭 Nenhum parlamentar encontrado com esse nome."
	msgSearchFailure      = "❌ Erro ao buscar parlamentares. Tente novamente mais tarde."
	msgChoiceInvalid      = "❌ Escolha inválida. Digite o número de um dos nomes listados."
	msgSummaryFailure     = "⚠️ Não consegui consultar o resumo das emendas. Tente novamente mais tarde."
)

const msgMenu = `🍼 *Bem-vindo ao Bot ZecaTron!*

Escolha uma opção:
1️⃣ Minha Carga Horária no PFC
2️⃣ Cursos Disponíveis
3️⃣ Frase Motivacional
4️⃣ Fale com o Secretário
5️⃣ Baixar Agenda (PDF)
6️⃣ Emendas Parlamentares

Digite o número da opção.`

func renderSchedule(s *domain.Schedule) string {
	return fmt.Sprintf("📚 *Carga Horária*\n\nNome: %s\nCPF: %s\nCarga Total: %sh\nPeríodo: %s",
		s.Name, s.CPF, s.TotalHours, s.Period)
}

func renderCourses(courses []domain.Course) string {
	var b strings.Builder
	b.WriteString("📚 *Cursos Disponíveis:*\n\n")
	for i, c := range courses {
		fmt.Fprintf(&b, "%d. %s\nInício: %s\nFim: %s\nCH: %sh\n🔗 %s\n\n",
			i+1, c.Name, c.Start, c.End, c.Hours, c.Link)
	}
	return strings.TrimSpace(b.String())
}

func renderQuote(quote string) string {
	return fmt.Sprintf("☠️ *Frase do dia:*\n\n\"%s\"", quote)
}

func renderAgendaProgress(year, month int) string {
	return fmt.Sprintf("🔄 Gerando agenda de %d/%d...", month, year)
}

func renderAgendaCaption(year int, month string) string {
	return fmt.Sprintf("📎 Agenda %s/%d", month, year)
}

func renderCandidates(candidates []domain.CandidateRecord) string {
	var b strings.Builder
	b.WriteString("🏛️ *Parlamentares encontrados:*\n\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.DisplayName)
	}
	b.WriteString("\nDigite o número da opção.")
	return b.String()
}

func renderSummary(s *domain.AmendmentSummary) string {
	return fmt.Sprintf("🏛️ *Emendas de %s*\n\nInvestimento previsto: %s\nTotal liquidado: %s\nImpedimentos técnicos: %d",
		s.Name, formatBRL(s.InvestmentTotal), formatBRL(s.LiquidatedTotal), s.ImpedimentCount)
}

// formatBRL renders a value as Brazilian currency: R$ 1.234.567,89.
func formatBRL(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	n := len(intPart)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(intPart[i])
	}

	return "R$ " + sign + b.String() + "," + frac
}
