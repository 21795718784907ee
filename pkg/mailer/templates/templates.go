package templates

import (
	"bytes"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
	"time"
)

// Template names carried in EmailJob.Template
const (
	Welcome               = "welcome"
	FriendRequestAccepted = "friend_request_accepted"
)

// EmailData defines standard fields for email templates.
type EmailData struct {
	Name           string    `json:"Name"`
	RecipientEmail string    `json:"RecipientEmail"`
	AppName        string    `json:"AppName"`
	ActionURL      string    `json:"ActionURL"`
	FriendName     string    `json:"FriendName"`
	TimeAt         time.Time `json:"TimeAt"`
	Time           string    `json:"Time"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

type tpl struct {
	subject string
	text    string
	html    string
}

var registry = map[string]tpl{
	Welcome: {
		subject: "Welcome to {{.AppName}}",
		text: "Hi {{.Name}},\n\nyour {{.AppName}} account is ready. Finish onboarding to meet language partners:\n{{.ActionURL}}\n",
		html: `<p>Hi {{.Name}},</p><p>your {{.AppName}} account is ready.</p>` +
			`<p><a href="{{.ActionURL}}">Finish onboarding</a> to meet language partners.</p>`,
	},
	FriendRequestAccepted: {
		subject: "{{.FriendName}} accepted your friend request",
		text:    "Hi {{.Name}},\n\n{{.FriendName}} accepted your friend request on {{.Time}}. Say hello:\n{{.ActionURL}}\n",
		html: `<p>Hi {{.Name}},</p><p><strong>{{.FriendName}}</strong> accepted your friend request on {{.Time}}.</p>` +
			`<p><a href="{{.ActionURL}}">Say hello</a></p>`,
	},
}

// Render produces subject, text and html bodies for a named template.
func Render(name string, data map[string]any) (subject string, text string, html string, err error) {
	t, ok := registry[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
	if subject, err = renderText(name+".subject", t.subject, data); err != nil {
		return "", "", "", err
	}
	if text, err = renderText(name+".text", t.text, data); err != nil {
		return "", "", "", err
	}
	h, err := htmpl.New(name + ".html").Option("missingkey=zero").Parse(t.html)
	if err != nil {
		return "", "", "", err
	}
	var buf bytes.Buffer
	if err := h.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	return subject, text, buf.String(), nil
}

func renderText(name, src string, data map[string]any) (string, error) {
	t, err := texttpl.New(name).Option("missingkey=zero").Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
