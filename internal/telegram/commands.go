package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/boligpris/internal/logger"
	"github.com/rewired-gh/boligpris/internal/models"
	"github.com/rewired-gh/boligpris/internal/quarters"
	"github.com/rewired-gh/boligpris/internal/session"
)

// Callback data prefixes for the save prompt buttons.
const (
	callbackSave   = "save:"
	callbackCancel = "cancel:"
)

const helpText = `Commands:
/quarters - list the selectable quarters
/search <from> <to> [type] - e.g. /search 2023K1 2023K4 02
/history - show saved searches`

func (c *Client) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if chat := updateChat(update); chat == nil || chat.ID != c.chatID {
		return
	}

	switch {
	case update.CallbackQuery != nil:
		c.handleCallback(update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		c.handleCommand(ctx, update.Message)
	}
}

func updateChat(update tgbotapi.Update) *tgbotapi.Chat {
	switch {
	case update.Message != nil:
		return update.Message.Chat
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.Chat
	}
	return nil
}

func (c *Client) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	logger.Info("Received command: %s", msg.Text)

	var reply string
	switch msg.Command() {
	case "search":
		reply = c.search(ctx, msg.CommandArguments())
	case "quarters":
		all := quarters.All()
		reply = fmt.Sprintf("%d quarters: %s ... %s\nIndices 0-%d may be used instead of labels.",
			len(all), all[0], all[len(all)-1], len(all)-1)
	case "history":
		reply = formatHistory(c.sess.History())
	default:
		reply = helpText
	}

	if reply != "" {
		if err := c.SendText(reply); err != nil {
			logger.Error("Failed to send reply: %v", err)
		}
	}
}

// search submits the query, shows the save prompt and sends the chart when
// the response arrives. It returns a reply only for unusable arguments.
func (c *Client) search(ctx context.Context, args string) string {
	sel, err := parseSearchArgs(args, c.sess.Selection())
	if err != nil {
		return fmt.Sprintf("%v\n\n%s", err, helpText)
	}

	sub, err := c.sess.Submit(ctx, sel)
	if err != nil {
		return err.Error()
	}

	prompt := tgbotapi.NewMessage(c.chatID, "Do you want to save search entry in the history?")
	prompt.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Yes", callbackSave+sub.Prompt.ID),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", callbackCancel+sub.Prompt.ID),
		),
	)
	if _, err := c.bot.Send(prompt); err != nil {
		logger.Error("Failed to send save prompt: %v", err)
	}

	go func() {
		if err := sub.Wait(ctx); err != nil {
			// Failures stay in the log; the chat keeps its last chart.
			return
		}
		if !sub.Applied() {
			return
		}
		if err := c.SendChart(sub.Query.Category, c.sess.Result()); err != nil {
			logger.Error("Failed to send chart: %v", err)
		}
	}()
	return ""
}

func (c *Client) handleCallback(cb *tgbotapi.CallbackQuery) {
	var (
		err    error
		answer string
	)
	switch {
	case strings.HasPrefix(cb.Data, callbackSave):
		err = c.sess.Confirm(strings.TrimPrefix(cb.Data, callbackSave))
		answer = "Saved to history."
	case strings.HasPrefix(cb.Data, callbackCancel):
		err = c.sess.Decline(strings.TrimPrefix(cb.Data, callbackCancel))
		answer = "Not saved."
	default:
		return
	}

	if errors.Is(err, session.ErrNoPrompt) {
		answer = "This prompt has expired."
	} else if err != nil {
		logger.Error("Failed to save history: %v", err)
		answer = "Could not save."
	}

	if _, err := c.bot.Request(tgbotapi.NewCallback(cb.ID, answer)); err != nil {
		logger.Warn("Failed to answer callback: %v", err)
	}
	if cb.Message != nil {
		edit := tgbotapi.NewEditMessageText(c.chatID, cb.Message.MessageID, answer)
		if _, err := c.bot.Send(edit); err != nil {
			logger.Warn("Failed to close prompt message: %v", err)
		}
	}
}

// parseSearchArgs reads "<from> <to> [type]". Periods may be labels
// ("2023K1") or vocabulary indices; type may be a code or a label and
// defaults to current's type.
func parseSearchArgs(args string, current models.Selection) (models.Selection, error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return models.Selection{}, errors.New("usage: /search <from> <to> [type]")
	}

	lo, err := quarters.Parse(fields[0])
	if err != nil {
		return models.Selection{}, err
	}
	hi, err := quarters.Parse(fields[1])
	if err != nil {
		return models.Selection{}, err
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	typ := current.Type
	if len(fields) > 2 {
		category, err := models.ParseCategory(strings.Join(fields[2:], " "))
		if err != nil {
			return models.Selection{}, err
		}
		typ = category.Code
	}
	return models.Selection{Lo: lo, Hi: hi, Type: typ}, nil
}
