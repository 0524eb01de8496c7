package bot

import (
	"regexp"
	"strconv"
	"strings"
)

type commandKind int

const (
	cmdReschedule commandKind = iota
	cmdComplete
	cmdDetail
	cmdMine
	cmdToday
	cmdTomorrow
	cmdStats
	cmdPending
	cmdStatus
	cmdHelp
)

// commandInvocation is the parsed form of one inbound message. Code is
// normalized to uppercase 4-hex; Hours is the raw requested shift (magnitude
// validation happens at dispatch so the reply can carry guidance).
type commandInvocation struct {
	kind  commandKind
	code  string
	hours int
}

var (
	rescheduleRe = regexp.MustCompile(`^/reagendar\s+([0-9A-Fa-f]{4})\s+\+(\d+)h?$`)
	completeRe   = regexp.MustCompile(`^/finalizar\s+([0-9A-Fa-f]{4})$`)
	detailRe     = regexp.MustCompile(`^/tarefa\s+([0-9A-Fa-f]{4})$`)
)

const (
	usageReschedule = "Uso: /reagendar <código> +1h ou /reagendar <código> +2h\nExemplo: /reagendar A1B2 +1h"
	usageComplete   = "Uso: /finalizar <código>\nExemplo: /finalizar A1B2"
	usageDetail     = "Uso: /tarefa <código>\nExemplo: /tarefa A1B2"
)

// parseCommand maps inbound text onto the command grammar. It returns the
// parsed invocation, or a usage hint when a known verb carries malformed
// arguments. Bare verbs must be the whole message, modulo an @botname
// suffix. Text that matches neither is ignored entirely (nil, "").
func parseCommand(text string) (*commandInvocation, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return nil, ""
	}

	if m := rescheduleRe.FindStringSubmatch(text); m != nil {
		hours, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, usageReschedule
		}
		return &commandInvocation{kind: cmdReschedule, code: strings.ToUpper(m[1]), hours: hours}, ""
	}
	if m := completeRe.FindStringSubmatch(text); m != nil {
		return &commandInvocation{kind: cmdComplete, code: strings.ToUpper(m[1])}, ""
	}
	if m := detailRe.FindStringSubmatch(text); m != nil {
		return &commandInvocation{kind: cmdDetail, code: strings.ToUpper(m[1])}, ""
	}

	fields := strings.Fields(text)
	verb := strings.ToLower(fields[0])
	if at := strings.Index(verb, "@"); at > 0 {
		verb = verb[:at]
	}

	switch verb {
	case "/reagendar":
		return nil, usageReschedule
	case "/finalizar":
		return nil, usageComplete
	case "/tarefa":
		return nil, usageDetail
	}

	if len(fields) != 1 {
		return nil, ""
	}

	switch verb {
	case "/minhas":
		return &commandInvocation{kind: cmdMine}, ""
	case "/hoje":
		return &commandInvocation{kind: cmdToday}, ""
	case "/amanha":
		return &commandInvocation{kind: cmdTomorrow}, ""
	case "/stats":
		return &commandInvocation{kind: cmdStats}, ""
	case "/pendentes":
		return &commandInvocation{kind: cmdPending}, ""
	case "/status":
		return &commandInvocation{kind: cmdStatus}, ""
	case "/help", "/start":
		return &commandInvocation{kind: cmdHelp}, ""
	}
	return nil, ""
}
