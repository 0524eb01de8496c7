package service

import (
	"fmt"
	"strings"
	"time"

	"agenda-bjj/internal/timeutil"
)

// Message composition for the Telegram channel. Every function here is a pure
// transformation from schedule data to Markdown text; sending is the caller's
// concern. Field order is stable across variants: time, title, code, assignee,
// description, location link, call-to-action.

// HelpMessage enumerates the command grammar.
func HelpMessage() string {
	return `🤖 *Comandos disponíveis:*

📅 *Reagendar tarefa:*
/reagendar <código> +1h - Reagendar +1 hora
/reagendar <código> +2h - Reagendar +2 horas

✅ *Finalizar tarefa:*
/finalizar <código> - Marcar como concluída

📋 *Consultas:*
/tarefa <código> - Detalhes da tarefa
/minhas - Minhas tarefas de hoje
/hoje - Todas as tarefas de hoje
/amanha - Tarefas de amanhã

📊 *Relatórios:*
/stats - Estatísticas da semana
/pendentes - Tarefas pendentes

⚙️ *Sistema:*
/status - Status do sistema
/help - Esta ajuda

*Exemplo:*
/reagendar A1B2 +1h
/finalizar A1B2
/tarefa A1B2`
}

// ComposeDigest builds the weekday-morning agenda, or a no-tasks greeting when
// the day is free.
func ComposeDigest(views []TaskView, date string) string {
	if len(views) == 0 {
		return fmt.Sprintf("🌅 *Bom dia!*\n\n📅 Hoje (%s) não há tarefas pendentes.\n\nTenha um ótimo dia! ✨",
			timeutil.FormatDate(date))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🌅 *Bom dia!*\n\n📅 *Agenda de hoje (%s):*\n\n", timeutil.FormatDate(date))
	for i, v := range views {
		fmt.Fprintf(&sb, "%d. 🕐 *%s - %s*\n", i+1, v.Start, v.End)
		fmt.Fprintf(&sb, "   %s %s\n", iconOr(v.CategoryIcon), v.Title)
		fmt.Fprintf(&sb, "   🔢 `%s`\n", v.Code)
		if v.AssignedToName != "" {
			fmt.Fprintf(&sb, "   👤 %s\n", v.AssignedToName)
		}
		if v.Description != "" {
			fmt.Fprintf(&sb, "   📝 %s\n", v.Description)
		}
		if v.MapsLink != "" {
			fmt.Fprintf(&sb, "   📍 [Ver localização](%s)\n", v.MapsLink)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("💡 *Comandos disponíveis:*\n/reagendar <código> +1h\n/finalizar <código>\n/help - Ver todos os comandos\n\n💪 Tenha um dia produtivo!")
	return sb.String()
}

// ComposeReminder builds a single upcoming-task reminder for one lead-time
// bucket.
func ComposeReminder(v TaskView, bucket int) string {
	var sb strings.Builder
	switch bucket {
	case timeutil.Bucket15:
		sb.WriteString("⏰ *Lembrete: Tarefa em 15 minutos!*\n\n")
	case timeutil.Bucket5:
		sb.WriteString("🚨 *Atenção: Tarefa em 5 minutos!*\n\n")
	default:
		sb.WriteString("🔔 *AGORA: Hora da tarefa!*\n\n")
	}

	fmt.Fprintf(&sb, "🕐 *%s - %s*\n", v.Start, v.End)
	fmt.Fprintf(&sb, "%s *%s*\n", iconOr(v.CategoryIcon), v.Title)
	fmt.Fprintf(&sb, "🔢 Código: `%s`\n", v.Code)
	if v.AssignedToName != "" {
		fmt.Fprintf(&sb, "👤 Responsável: %s\n", v.AssignedToName)
	}
	if v.Description != "" {
		fmt.Fprintf(&sb, "📝 %s\n", v.Description)
	}
	if v.MapsLink != "" {
		fmt.Fprintf(&sb, "\n📍 [Ver localização no Maps](%s)\n", v.MapsLink)
	}
	fmt.Fprintf(&sb, "\n💡 *Comandos:*\n/reagendar %s +1h\n/finalizar %s", v.Code, v.Code)
	if bucket == timeutil.Bucket0 {
		sb.WriteString("\n\n🚀 Vamos lá!")
	}
	return sb.String()
}

// ComposeRescheduled confirms a successful reschedule with the new window.
func ComposeRescheduled(v TaskView, hours int) string {
	var sb strings.Builder
	sb.WriteString("✅ *Tarefa reagendada com sucesso!*\n\n")
	fmt.Fprintf(&sb, "%s *%s*\n", iconOr(v.CategoryIcon), v.Title)
	fmt.Fprintf(&sb, "🔢 Código: `%s`\n", v.Code)
	fmt.Fprintf(&sb, "🕐 Novo horário: *%s - %s*\n", v.Start, v.End)
	fmt.Fprintf(&sb, "📅 Data: %s\n", timeutil.FormatDate(v.Date))
	fmt.Fprintf(&sb, "🔄 Reagendado: +%dh", hours)
	if v.AssignedToName != "" {
		fmt.Fprintf(&sb, "\n👤 Responsável: %s", v.AssignedToName)
	}
	if v.MapsLink != "" {
		fmt.Fprintf(&sb, "\n\n📍 [Ver localização](%s)", v.MapsLink)
	}
	sb.WriteString("\n\n💡 Verifique o dashboard para confirmar.")
	return sb.String()
}

// ComposeCompleted confirms a task completion.
func ComposeCompleted(v TaskView) string {
	var sb strings.Builder
	sb.WriteString("✅ *Tarefa finalizada!*\n\n")
	fmt.Fprintf(&sb, "%s *%s*\n", iconOr(v.CategoryIcon), v.Title)
	fmt.Fprintf(&sb, "🔢 Código: `%s`\n", v.Code)
	fmt.Fprintf(&sb, "🕐 %s - %s\n", v.Start, v.End)
	fmt.Fprintf(&sb, "📅 %s", timeutil.FormatDate(v.Date))
	if v.AssignedToName != "" {
		fmt.Fprintf(&sb, "\n👤 Responsável: %s", v.AssignedToName)
	}
	if v.Description != "" {
		fmt.Fprintf(&sb, "\n📝 %s", v.Description)
	}
	sb.WriteString("\n\n🎉 Parabéns! Tarefa concluída com sucesso.")
	return sb.String()
}

// ComposeDetail dumps every non-empty field of one task.
func ComposeDetail(v TaskView) string {
	var sb strings.Builder
	sb.WriteString("📋 *Detalhes da Tarefa*\n\n")
	fmt.Fprintf(&sb, "%s *%s*\n", iconOr(v.CategoryIcon), v.Title)
	fmt.Fprintf(&sb, "🔢 Código: `%s`\n", v.Code)
	fmt.Fprintf(&sb, "🏷️ Categoria: %s\n", nameOr(v.CategoryName, "Sem categoria"))
	fmt.Fprintf(&sb, "🕐 Horário: *%s - %s*\n", v.Start, v.End)
	fmt.Fprintf(&sb, "📅 Data: %s\n", timeutil.FormatDate(v.Date))
	if v.IsCompleted {
		sb.WriteString("✅ Status: Finalizada")
	} else {
		sb.WriteString("⏰ Status: Pendente")
	}
	if v.Description != "" {
		fmt.Fprintf(&sb, "\n📝 Descrição: %s", v.Description)
	}
	if v.CreatedByName != "" {
		fmt.Fprintf(&sb, "\n👨‍💼 Criado por: %s", v.CreatedByName)
	}
	if v.AssignedToName != "" {
		fmt.Fprintf(&sb, "\n👤 Responsável: %s", v.AssignedToName)
	}
	if v.RescheduledReason != "" {
		fmt.Fprintf(&sb, "\n🔄 %s", v.RescheduledReason)
	}
	if v.MapsLink != "" {
		fmt.Fprintf(&sb, "\n\n📍 [Ver localização no Maps](%s)", v.MapsLink)
	}
	if !v.IsCompleted {
		fmt.Fprintf(&sb, "\n\n💡 *Comandos disponíveis:*\n/reagendar %s +1h\n/finalizar %s", v.Code, v.Code)
	}
	return sb.String()
}

// ComposeDayList builds the /hoje and /amanha listings with per-task status
// and totals.
func ComposeDayList(header string, views []TaskView, date string) string {
	if len(views) == 0 {
		return fmt.Sprintf("📅 *%s (%s)*\n\nNenhuma tarefa agendada! 🎉", header, timeutil.FormatDate(date))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 *%s (%s):*\n\n", header, timeutil.FormatDate(date))
	completed := 0
	for i, v := range views {
		status := "⏰"
		if v.IsCompleted {
			status = "✅"
			completed++
		}
		fmt.Fprintf(&sb, "%d. %s *%s - %s*\n", i+1, status, v.Start, v.End)
		fmt.Fprintf(&sb, "   %s %s\n", iconOr(v.CategoryIcon), v.Title)
		fmt.Fprintf(&sb, "   🔢 `%s`\n\n", v.Code)
	}
	fmt.Fprintf(&sb, "📊 Total: %d\n", len(views))
	fmt.Fprintf(&sb, "✅ Concluídas: %d\n", completed)
	fmt.Fprintf(&sb, "⏰ Pendentes: %d", len(views)-completed)
	return sb.String()
}

// ComposePending builds the /pendentes listing of upcoming open tasks.
func ComposePending(views []TaskView) string {
	if len(views) == 0 {
		return "✅ *Tarefas pendentes*\n\nNenhuma tarefa pendente. Tudo em dia! 🎉"
	}

	var sb strings.Builder
	sb.WriteString("⏰ *Tarefas pendentes:*\n\n")
	for i, v := range views {
		fmt.Fprintf(&sb, "%d. 🕐 *%s - %s* · %s\n", i+1, v.Start, v.End, timeutil.FormatDate(v.Date))
		fmt.Fprintf(&sb, "   %s %s\n", iconOr(v.CategoryIcon), v.Title)
		fmt.Fprintf(&sb, "   🔢 `%s`\n", v.Code)
		if v.AssignedToName != "" {
			fmt.Fprintf(&sb, "   👤 %s\n", v.AssignedToName)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "📊 Total: %d", len(views))
	return sb.String()
}

// ComposeStats builds the weekly statistics report.
func ComposeStats(stats WeeklyStats) string {
	var sb strings.Builder
	sb.WriteString("📊 *Estatísticas da Semana*\n\n")
	fmt.Fprintf(&sb, "📋 Total: %d\n", stats.Total)
	fmt.Fprintf(&sb, "✅ Concluídas: %d\n", stats.Completed)
	fmt.Fprintf(&sb, "⏰ Pendentes: %d\n", stats.Pending)
	if stats.Total > 0 {
		fmt.Fprintf(&sb, "📈 Taxa de conclusão: %d%%\n", stats.CompletionRate)
	}
	if len(stats.ByCategory) > 0 {
		sb.WriteString("\n🏷️ *Por categoria:*\n")
		for _, cat := range stats.ByCategory {
			fmt.Fprintf(&sb, "%s %s: %d\n", iconOr(cat.Icon), cat.Name, cat.Count)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ComposeStatus builds the /status health report.
func ComposeStatus(status SystemStatus, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("🏥 *Status do Sistema*\n\n")
	sb.WriteString("📊 Estatísticas:\n")
	fmt.Fprintf(&sb, "• 📋 Tarefas: %d\n", status.Tasks)
	fmt.Fprintf(&sb, "• 👥 Usuários ativos: %d\n", status.ActiveUsers)
	fmt.Fprintf(&sb, "• 🏷️ Categorias: %d\n\n", status.ActiveCategories)
	sb.WriteString("🤖 Bot: Funcionando ✅\n")
	sb.WriteString("🗄️ Banco de dados: Conectado ✅\n")
	sb.WriteString("🔔 Notificações: Ativas ✅\n\n")
	fmt.Fprintf(&sb, "⏰ Última verificação: %s", now.Format("02/01/2006 15:04"))
	return sb.String()
}

// MsgTaskNotFound is the reply for missing or already-finished codes.
func MsgTaskNotFound(code string) string {
	return fmt.Sprintf("❌ Tarefa *%s* não encontrada ou já finalizada.", code)
}

// MsgConflict names the slot that blocks a reschedule.
func MsgConflict(code string, with TaskView) string {
	return fmt.Sprintf("❌ Conflito de horário ao reagendar *%s*: choca com *%s* (%s - %s). Verifique a agenda.",
		code, with.Code, with.Start, with.End)
}

// MsgPastMidnight is the reply for shifts crossing 24:00.
func MsgPastMidnight(code string) string {
	return fmt.Sprintf("❌ Não é possível reagendar *%s* - horário passaria da meia-noite.", code)
}

// MsgBadShift is the guidance for disallowed shift magnitudes.
func MsgBadShift(code string) string {
	return fmt.Sprintf("❌ Apenas +1h ou +2h são permitidos.\n\nUso: /reagendar %s +1h ou /reagendar %s +2h", code, code)
}

// MsgInternalError is the generic failure reply for one command.
func MsgInternalError(code string) string {
	if code == "" {
		return "❌ Erro ao processar o comando. Tente novamente."
	}
	return fmt.Sprintf("❌ Erro ao processar a tarefa *%s*. Tente novamente.", code)
}

func iconOr(icon string) string {
	if icon == "" {
		return "📋"
	}
	return icon
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
