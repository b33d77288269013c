package notifsvc

import (
	"context"
	"fmt"
	"strconv"

	maxbot "github.com/max-messenger/max-bot-api-client-go"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

type maxbotService struct {
	api    *maxbot.Api
	logger core.Logger
}

var _ core.NotificationService = (*maxbotService)(nil)

func NewMaxbotService(conf *core.Config, logger core.Logger) (*maxbotService, error) {
	api, err := maxbot.New(conf.Notification.MaxBotToken)
	if err != nil {
		return nil, errors.Wrap(err, "initializing Max bot client")
	}
	return &maxbotService{api: api, logger: logger}, nil
}

func (svc maxbotService) Send(notifs ...*core.Notification) {
	for _, notif := range notifs {
		notif := notif
		go svc.send(notif)
	}
}

func (svc maxbotService) send(notif *core.Notification) {
	if notif.ChatID == "" || notif.Text == "" {
		return
	}
	userID, err := strconv.ParseInt(notif.ChatID, 10, 64)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("invalid chat ID %q: %v", notif.ChatID, err), err)
		return
	}

	_, err = svc.api.Messages.Send(context.Background(), maxbot.NewMessage().
		SetUser(userID).
		SetText(notif.Text))
	if err != nil && err.Error() != "" {
		svc.logger.Error(fmt.Sprintf("sending chat notification: %v", err), err)
	}
}
