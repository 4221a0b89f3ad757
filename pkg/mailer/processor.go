package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/pkg/helpers"
	mailtpl "github.com/oksasatya/storefront/pkg/mailer/templates"
)

// ErrPermanent marks a job that will never succeed and must not be requeued.
var ErrPermanent = errors.New("permanent email job failure")

// Processor turns queued jobs into delivered mail.
type Processor struct {
	Sender Sender
	Geo    mailtpl.GeoResolver
	Logger *logrus.Logger
}

// Handle decodes, renders and sends one message body.
func (p *Processor) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrPermanent, err)
	}
	if strings.TrimSpace(job.To) == "" {
		return fmt.Errorf("%w: missing recipient", ErrPermanent)
	}
	ensureRecipient(&job)
	p.enrichLocation(ctx, job.Data)

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", ErrPermanent, job.Template, err)
		}
		subject, text, html = strings.TrimSpace(s), t, h
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := p.Sender.Send(c, job.To, subject, text, html); err != nil {
		return fmt.Errorf("send to %s: %w", job.To, err)
	}
	if p.Logger != nil {
		helpers.LogInfo(p.Logger, "email sent", logrus.Fields{"to": job.To, "template": job.Template})
	}
	return nil
}

func ensureRecipient(job *EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// enrichLocation fills Location and a localized Time from the job's IP when possible.
func (p *Processor) enrichLocation(ctx context.Context, data map[string]any) {
	if p.Geo == nil {
		return
	}
	ip := strings.TrimSpace(fmt.Sprintf("%v", data["IP"]))
	if ip == "" || ip == "<nil>" {
		return
	}
	g, err := p.Geo.Lookup(ctx, ip)
	if err != nil {
		return
	}
	if loc, ok := data["Location"]; !ok || fmt.Sprintf("%v", loc) == "" {
		data["Location"] = mailtpl.FormatGeo(g)
	}
	if g.Timezone == "" {
		return
	}
	tz, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return
	}
	if t, ok := parseTime(data["TimeAt"]); ok {
		data["Time"] = t.In(tz).Format("02 January 2006, 15:04 MST")
	}
}

func parseTime(v any) (time.Time, bool) {
	s := fmt.Sprintf("%v", v)
	for _, l := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
