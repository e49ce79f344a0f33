package emailsvc

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/mail"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dashboard/assets"
	"github.com/trezcool/dashboard/core"
	logsvc "github.com/trezcool/dashboard/services/logger"
)

func setup(t *testing.T) (*core.Config, core.Logger, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(log.New(&logs, "", 0), conf)
	core.ParseEmailTemplates(assets.FS, assets.EmailTemplatesDir, logger)
	return conf, logger, &logs
}

func TestConsoleServiceMock(t *testing.T) {
	conf, logger, logs := setup(t)
	svc := NewConsoleServiceMock(conf, logger)

	svc.SendMessages(
		&core.EmailMessage{
			To:           []mail.Address{{Name: "Bob", Address: "bob@example.com"}},
			Subject:      "Your account",
			TemplateName: "welcome",
			TemplateData: map[string]string{"Email": "bob@example.com"},
		},
		&core.EmailMessage{Subject: "no recipients", BodyStr: "hi"},
		&core.EmailMessage{To: []mail.Address{{Address: "a@example.com"}}, TemplateName: "unknown"},
	)

	require.Len(t, svc.SentMessages, 1)
	msg, ok := svc.Last()
	require.True(t, ok)
	assert.Contains(t, msg.TextContent, "An account has been created for you (bob@example.com)")
	assert.Contains(t, msg.TextContent, conf.FrontendBaseURL+"/login")
	assert.Contains(t, msg.HTMLContent, "bob@example.com")
	assert.Contains(t, logs.String(), `email template "unknown" not found`)
}

func TestConsoleService_Send(t *testing.T) {
	conf, logger, _ := setup(t)
	var out bytes.Buffer
	svc := newConsoleService(conf, logger, &out)

	ok := svc.sendMessage(&core.EmailMessage{
		To:      []mail.Address{{Name: "Bob", Address: "bob@example.com"}},
		Subject: "Hello",
		BodyStr: "plain body",
	})
	require.True(t, ok)
	assert.Contains(t, out.String(), "Subject: ["+conf.AppName+"] Hello")
	assert.Contains(t, out.String(), `To: "Bob" <bob@example.com>`)
	assert.Contains(t, out.String(), "plain body")
	assert.NotContains(t, out.String(), "text/html")
}

func TestSendgridService(t *testing.T) {
	conf, logger, logs := setup(t)
	conf.SendgridAPIKey = "sg-key"

	var reqs []rest.Request
	svc := NewSendgridService(conf, logger).(*sendgridService)
	svc.api = func(req rest.Request) (*rest.Response, error) {
		reqs = append(reqs, req)
		return &rest.Response{StatusCode: http.StatusBadRequest, Body: "bad request"}, nil
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: "Bob", Address: "bob@example.com"}},
		Subject:      "Password reset",
		TemplateName: "password_reset",
		TemplateData: map[string]string{"UID": "uid", "Token": "tok"},
	}
	require.NoError(t, msg.Render(conf))
	svc.send(*msg)

	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer sg-key", reqs[0].Headers["Authorization"])

	var body struct {
		Personalizations []struct {
			To      []struct{ Email string } `json:"to"`
			Subject string                   `json:"subject"`
		} `json:"personalizations"`
		Content []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	assert.Equal(t, "["+conf.AppName+"] Password reset", body.Personalizations[0].Subject)
	assert.Equal(t, "bob@example.com", body.Personalizations[0].To[0].Email)
	require.Len(t, body.Content, 2)
	assert.Contains(t, body.Content[0].Value, "uid/tok")
	assert.Contains(t, logs.String(), "status: 400")
}
