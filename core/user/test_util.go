package user

import (
	"sync"
	"time"

	"github.com/trezcool/dashboard/core"
)

// MailServiceMock records sent messages instead of delivering them.
type MailServiceMock struct {
	mu       sync.Mutex
	Messages []*core.EmailMessage
}

var _ core.EmailService = (*MailServiceMock)(nil)

func (svc *MailServiceMock) SendMessages(messages ...*core.EmailMessage) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.Messages = append(svc.Messages, messages...)
}

func (svc *MailServiceMock) Last() *core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if len(svc.Messages) == 0 {
		return nil
	}
	return svc.Messages[len(svc.Messages)-1]
}

// NewServiceMock returns a Service whose clock is frozen at now.
func NewServiceMock(repo Repository, mailSvc core.EmailService, conf *core.Config, now time.Time) Service {
	svc := newService(repo, mailSvc, conf)
	svc.nowFunc = func() time.Time { return now }
	svc.tokens.nowFunc = svc.nowFunc
	return svc
}
