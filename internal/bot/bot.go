package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"agenda-bjj/internal/config"
	"agenda-bjj/internal/service"
	"agenda-bjj/internal/timeutil"
)

// Sender delivers one message to the administrative channel.
type Sender interface {
	Send(text string, disablePreview bool) error
}

type telegramSender struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func (s *telegramSender) Send(text string, disablePreview bool) error {
	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = disablePreview
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Bot aggregates the Telegram API with the schedule services. Only messages
// from the configured administrative chat are handled; everything else is
// dropped without a reply.
type Bot struct {
	api         *tgbotapi.BotAPI
	sender      Sender
	scheduleSvc *service.ScheduleService
	reminderSvc *service.ReminderService
	adminChatID int64
	commands    bool
	loc         *time.Location
}

func New(scheduleSvc *service.ScheduleService, reminderSvc *service.ReminderService, cfg config.Config, loc *time.Location) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	b := newWithSender(scheduleSvc, reminderSvc, &telegramSender{api: api, chatID: cfg.AdminChatID}, cfg.AdminChatID, cfg.CommandsEnabled, loc)
	b.api = api
	return b, nil
}

// newWithSender wires a bot around an arbitrary sender. Used directly by
// tests; New wraps it with the Telegram transport.
func newWithSender(scheduleSvc *service.ScheduleService, reminderSvc *service.ReminderService, sender Sender, adminChatID int64, commands bool, loc *time.Location) *Bot {
	return &Bot{
		sender:      sender,
		scheduleSvc: scheduleSvc,
		reminderSvc: reminderSvc,
		adminChatID: adminChatID,
		commands:    commands,
		loc:         loc,
	}
}

// Start begins polling updates until ctx is cancelled. When command handling
// is disabled it only blocks, leaving the scheduled notifications running.
func (b *Bot) Start(ctx context.Context) error {
	if !b.commands {
		log.Println("[info] command handling disabled, notifications only")
		<-ctx.Done()
		return nil
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil || update.Message.Chat == nil {
			continue
		}
		if err := b.handleMessage(ctx, update.Message.Chat.ID, update.Message.Text); err != nil {
			log.Printf("handle message: %v", err)
		}
	}

	return nil
}

// handleMessage authorizes, parses and dispatches one inbound message.
func (b *Bot) handleMessage(ctx context.Context, chatID int64, text string) error {
	if chatID != b.adminChatID {
		return nil
	}

	inv, hint := parseCommand(text)
	if inv == nil {
		if hint != "" {
			return b.sender.Send(hint, false)
		}
		return nil
	}

	log.Printf("[info] command kind=%d code=%s", inv.kind, inv.code)
	return b.dispatch(ctx, inv)
}

func (b *Bot) dispatch(ctx context.Context, inv *commandInvocation) error {
	switch inv.kind {
	case cmdReschedule:
		return b.handleReschedule(ctx, inv.code, inv.hours)
	case cmdComplete:
		return b.handleComplete(ctx, inv.code)
	case cmdDetail:
		return b.handleDetail(ctx, inv.code)
	case cmdMine:
		return b.handleMine(ctx)
	case cmdToday:
		return b.handleToday(ctx)
	case cmdTomorrow:
		return b.handleTomorrow(ctx)
	case cmdStats:
		return b.handleStats(ctx)
	case cmdPending:
		return b.handlePending(ctx)
	case cmdStatus:
		return b.handleStatus(ctx)
	case cmdHelp:
		return b.sender.Send(service.HelpMessage(), false)
	default:
		return nil
	}
}

func (b *Bot) handleReschedule(ctx context.Context, code string, hours int) error {
	view, err := b.scheduleSvc.Reschedule(ctx, code, hours)
	if err != nil {
		var conflict *service.ConflictError
		switch {
		case errors.Is(err, service.ErrBadShift):
			return b.sender.Send(service.MsgBadShift(code), false)
		case errors.Is(err, service.ErrTaskNotFound):
			return b.sender.Send(service.MsgTaskNotFound(code), false)
		case errors.Is(err, service.ErrPastMidnight):
			return b.sender.Send(service.MsgPastMidnight(code), false)
		case errors.As(err, &conflict):
			return b.sender.Send(service.MsgConflict(code, service.TaskView{ScheduleItem: conflict.With}), false)
		default:
			log.Printf("reschedule %s: %v", code, err)
			return b.sender.Send(service.MsgInternalError(code), false)
		}
	}
	return b.sender.Send(service.ComposeRescheduled(*view, hours), true)
}

func (b *Bot) handleComplete(ctx context.Context, code string) error {
	view, err := b.scheduleSvc.Complete(ctx, code)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			return b.sender.Send(service.MsgTaskNotFound(code), false)
		}
		log.Printf("complete %s: %v", code, err)
		return b.sender.Send(service.MsgInternalError(code), false)
	}
	return b.sender.Send(service.ComposeCompleted(*view), false)
}

func (b *Bot) handleDetail(ctx context.Context, code string) error {
	view, err := b.scheduleSvc.Detail(ctx, code)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			return b.sender.Send(fmt.Sprintf("❌ Tarefa *%s* não encontrada.", code), false)
		}
		log.Printf("detail %s: %v", code, err)
		return b.sender.Send(service.MsgInternalError(code), false)
	}
	return b.sender.Send(service.ComposeDetail(*view), true)
}

func (b *Bot) handleMine(ctx context.Context) error {
	date := timeutil.DateOf(time.Now(), b.loc)
	views, err := b.scheduleSvc.ActiveTasksFor(ctx, date)
	if err != nil {
		log.Printf("list mine: %v", err)
		return b.sender.Send(service.MsgInternalError(""), false)
	}
	return b.sender.Send(service.ComposeDayList("Minhas tarefas de hoje", views, date), false)
}

func (b *Bot) handleToday(ctx context.Context) error {
	date := timeutil.DateOf(time.Now(), b.loc)
	views, err := b.scheduleSvc.TasksFor(ctx, date)
	if err != nil {
		log.Printf("list today: %v", err)
		return b.sender.Send(service.MsgInternalError(""), false)
	}
	return b.sender.Send(service.ComposeDayList("Tarefas de hoje", views, date), false)
}

func (b *Bot) handleTomorrow(ctx context.Context) error {
	date := timeutil.NextDate(time.Now(), b.loc)
	views, err := b.scheduleSvc.TasksFor(ctx, date)
	if err != nil {
		log.Printf("list tomorrow: %v", err)
		return b.sender.Send(service.MsgInternalError(""), false)
	}
	return b.sender.Send(service.ComposeDayList("Tarefas de amanhã", views, date), false)
}

func (b *Bot) handleStats(ctx context.Context) error {
	stats, err := b.scheduleSvc.Stats(ctx, time.Now(), b.loc)
	if err != nil {
		log.Printf("stats: %v", err)
		return b.sender.Send(service.MsgInternalError(""), false)
	}
	return b.sender.Send(service.ComposeStats(stats), false)
}

func (b *Bot) handlePending(ctx context.Context) error {
	date := timeutil.DateOf(time.Now(), b.loc)
	views, err := b.scheduleSvc.PendingFrom(ctx, date)
	if err != nil {
		log.Printf("list pending: %v", err)
		return b.sender.Send(service.MsgInternalError(""), false)
	}
	return b.sender.Send(service.ComposePending(views), false)
}

func (b *Bot) handleStatus(ctx context.Context) error {
	status, err := b.scheduleSvc.Status(ctx)
	if err != nil {
		log.Printf("status: %v", err)
		return b.sender.Send(service.MsgInternalError(""), false)
	}
	return b.sender.Send(service.ComposeStatus(status, time.Now().In(b.loc)), false)
}

// SendDailyDigest is the daily digest trigger action.
func (b *Bot) SendDailyDigest(ctx context.Context) error {
	return b.reminderSvc.SendDailyDigest(ctx, time.Now(), b.sender.Send)
}

// SweepReminders is the 5-minute reminder sweep trigger action.
func (b *Bot) SweepReminders(ctx context.Context) error {
	return b.reminderSvc.Sweep(ctx, time.Now(), b.sender.Send)
}

// CleanupLedger is the nightly ledger cleanup trigger action.
func (b *Bot) CleanupLedger() {
	b.reminderSvc.CleanupLedger(time.Now())
}
