// Package telegram is a chat front-end for the search form. Commands select
// a range and category, the save prompt is an inline keyboard, and the chart
// arrives as a photo once the query completes.
//
// Only the configured chat is served; updates from other chats are ignored.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/boligpris/internal/chart"
	"github.com/rewired-gh/boligpris/internal/logger"
	"github.com/rewired-gh/boligpris/internal/models"
	"github.com/rewired-gh/boligpris/internal/session"
)

// sender is the subset of *tgbotapi.BotAPI used to talk to the chat.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Client handles Telegram commands and notifications
type Client struct {
	api       *tgbotapi.BotAPI
	bot       sender
	chatID    int64
	sess      *session.Session
	chartOpts chart.Options
}

// NewClient creates a new Telegram client bound to one chat
func NewClient(botToken, chatID string, sess *session.Session, chartOpts chart.Options) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	c := newClient(api, chatIDInt, sess, chartOpts)
	c.api = api
	return c, nil
}

func newClient(bot sender, chatID int64, sess *session.Session, chartOpts chart.Options) *Client {
	// Telegram photos must be raster images.
	chartOpts.Format = chart.FormatPNG
	return &Client{
		bot:       bot,
		chatID:    chatID,
		sess:      sess,
		chartOpts: chartOpts,
	}
}

// Listen long-polls for updates until ctx is cancelled.
func (c *Client) Listen(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := c.api.GetUpdatesChan(u)

	logger.Info("Listening for Telegram commands in chat %d", c.chatID)
	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			logger.Info("Telegram listener stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			c.handleUpdate(ctx, update)
		}
	}
}

// SendText sends a plain text message to the chat
func (c *Client) SendText(text string) error {
	_, err := c.bot.Send(tgbotapi.NewMessage(c.chatID, text))
	return err
}

// SendChart renders result and sends it as a photo with a MarkdownV2 caption.
// An empty result sends nothing.
func (c *Client) SendChart(category models.Category, result models.SeriesResult) error {
	opts := c.chartOpts
	opts.Title = category.Label

	img, err := chart.RenderBar(result, opts)
	if errors.Is(err, chart.ErrEmptySeries) {
		logger.Debug("Nothing to send for %s: empty series", category.Label)
		return nil
	}
	if err != nil {
		return err
	}

	photo := tgbotapi.NewPhoto(c.chatID, tgbotapi.FileBytes{Name: "chart.png", Bytes: img})
	photo.Caption = formatCaption(category, result, c.chartOpts.SeriesLabel)
	photo.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := c.bot.Send(photo); err != nil {
		return fmt.Errorf("failed to send chart: %w", err)
	}
	return nil
}
