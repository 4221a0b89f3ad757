package templates

import "time"

// Brand carries the storefront identity printed in every email.
type Brand struct {
	CompanyName string
	AppName     string
	ShopURL     string
	SupportURL  string
}

type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func newData(b Brand, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,
		CompanyName:    b.CompanyName,
		AppName:        b.AppName,
		ShopURL:        b.ShopURL,
		SupportURL:     b.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(b Brand, name, email string, opts ...Option) map[string]any {
	return ToMap(newData(b, Welcome, name, email, opts...))
}

func NewLoginNotificationData(b Brand, name, email string, opts ...Option) map[string]any {
	return ToMap(newData(b, LoginNotification, name, email, opts...))
}
