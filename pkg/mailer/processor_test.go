package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mailtpl "github.com/oksasatya/storefront/pkg/mailer/templates"
)

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, to, subject, text, html string) error {
	args := m.Called(ctx, to, subject, text, html)
	return args.Error(0)
}

type stubGeo struct{ geo mailtpl.Geo }

func (s stubGeo) Lookup(context.Context, string) (mailtpl.Geo, error) { return s.geo, nil }

func marshalJob(t *testing.T, job EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestProcessor_RendersTemplateAndSends(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.Anything, "ana@example.com", "Welcome to Acme, Ana",
		mock.MatchedBy(func(text string) bool { return text != "" }),
		mock.MatchedBy(func(html string) bool { return html != "" })).Return(nil)

	p := &Processor{Sender: sender}
	body := marshalJob(t, EmailJob{
		To:       "ana@example.com",
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(mailtpl.Brand{AppName: "Acme"}, "Ana", ""),
	})

	require.NoError(t, p.Handle(context.Background(), body))
	sender.AssertExpectations(t)
}

func TestProcessor_FillsLocationFromIP(t *testing.T) {
	var gotText string
	sender := new(mockSender)
	sender.On("Send", mock.Anything, "ana@example.com", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotText = args.String(3) }).Return(nil)

	p := &Processor{Sender: sender, Geo: stubGeo{geo: mailtpl.Geo{City: "Jakarta", Country: "Indonesia"}}}
	body := marshalJob(t, EmailJob{
		To:       "ana@example.com",
		Template: mailtpl.LoginNotification,
		Data:     mailtpl.NewLoginNotificationData(mailtpl.Brand{}, "Ana", "ana@example.com", mailtpl.WithIP("203.0.113.7")),
	})

	require.NoError(t, p.Handle(context.Background(), body))
	assert.Contains(t, gotText, "Jakarta, Indonesia")
}

func TestProcessor_PermanentFailures(t *testing.T) {
	p := &Processor{Sender: new(mockSender)}

	err := p.Handle(context.Background(), []byte("{not json"))
	assert.ErrorIs(t, err, ErrPermanent)

	err = p.Handle(context.Background(), marshalJob(t, EmailJob{Template: mailtpl.Welcome}))
	assert.ErrorIs(t, err, ErrPermanent)

	err = p.Handle(context.Background(), marshalJob(t, EmailJob{To: "a@b.c", Template: "missing"}))
	assert.ErrorIs(t, err, ErrPermanent)
}

func TestProcessor_SendFailureIsRetryable(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("mailgun down"))

	p := &Processor{Sender: sender}
	err := p.Handle(context.Background(), marshalJob(t, EmailJob{To: "a@b.c", Subject: "hi", Text: "hello"}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPermanent)
}
