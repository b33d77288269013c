package notifsvc

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/trezcool/darasa/core"
)

var (
	SentNotifications = make([]core.Notification, 0)
	mu                sync.Mutex
)

type consoleService struct {
	appName       string
	disableOutput bool
}

var _ core.NotificationService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config) core.NotificationService {
	return &consoleService{appName: conf.AppName}
}

func (svc consoleService) Send(notifs ...*core.Notification) {
	for _, notif := range notifs {
		go svc.send(notif)
	}
}

func (svc consoleService) send(notif *core.Notification) {
	if !notif.HasRecipient() || notif.Text == "" {
		return
	}
	if !svc.disableOutput {
		body := new(strings.Builder)
		_, _ = fmt.Fprintf(body, "From: %s\r\n", svc.appName)
		_, _ = fmt.Fprintf(body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
		_, _ = fmt.Fprintf(body, "To: %s <%s>\r\n", notif.Name, notif.ChatID)
		_, _ = fmt.Fprintf(body, "\r\n%s\r\n", notif.Text)
		log.Println(body.String())
	}
	mu.Lock()
	SentNotifications = append(SentNotifications, *notif)
	mu.Unlock()
}

type consoleServiceMock struct {
	consoleService
}

func NewConsoleServiceMock() core.NotificationService {
	return &consoleServiceMock{
		consoleService: consoleService{appName: "Darasa", disableOutput: true},
	}
}

func (svc *consoleServiceMock) Send(notifs ...*core.Notification) {
	for _, notif := range notifs {
		// run synchronously
		svc.send(notif)
	}
}

// ClearSentNotifications resets the recording buffer between tests.
func ClearSentNotifications() {
	mu.Lock()
	SentNotifications = SentNotifications[:0]
	mu.Unlock()
}
