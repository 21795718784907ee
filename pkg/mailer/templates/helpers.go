package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithActionURL(url string) Option   { return func(d *EmailData) { d.ActionURL = url } }
func WithFriendName(name string) Option { return func(d *EmailData) { d.FriendName = name } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

// NewBaseEmailData fills the common fields, then applies opts.
func NewBaseEmailData(appName, name, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		RecipientEmail: recipient,
		AppName:        appName,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(appName, name, recipient string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(appName, name, recipient, opts...))
}

func NewFriendRequestAcceptedData(appName, name, recipient, friendName string, opts ...Option) map[string]any {
	opts = append([]Option{WithFriendName(friendName)}, opts...)
	return ToMap(NewBaseEmailData(appName, name, recipient, opts...))
}
