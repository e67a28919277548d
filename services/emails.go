package services

import (
	"bytes"
	"html/template"
)

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "layout_start"}}<!DOCTYPE html><html><body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;"><div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">{{end}}
{{define "layout_end"}}<p style="color: #888;">NOM</p></div></body></html>{{end}}

{{define "verification"}}{{template "layout_start"}}
<h2>Verify your email</h2>
<p>Hello {{.Name}},</p>
<p>Your verification code is <strong style="font-size: 20px;">{{.Code}}</strong>.</p>
{{template "layout_end"}}{{end}}

{{define "approved"}}{{template "layout_start"}}
<h2>Your account was approved</h2>
<p>Hello {{.Name}},</p>
<p>Your {{.Role}} account is now active. You can sign in and start working.</p>
{{template "layout_end"}}{{end}}

{{define "rejected"}}{{template "layout_start"}}
<h2>Your account was not approved</h2>
<p>Hello {{.Name}},</p>
<p>Your {{.Role}} registration was rejected.{{if .Reason}} Reason: {{.Reason}}{{end}}</p>
{{template "layout_end"}}{{end}}

{{define "order_cancelled_customer"}}{{template "layout_start"}}
<h2>Order #{{.OrderID}} cancelled</h2>
<p>Hello {{.Name}},</p>
<p>Your order at {{.StoreName}} was cancelled.</p>
<p>Reason: {{.Reason}}</p>
<p>Total: {{.Total}}</p>
{{template "layout_end"}}{{end}}

{{define "order_cancelled_store"}}{{template "layout_start"}}
<h2>Order #{{.OrderID}} cancelled</h2>
<p>Hello {{.Name}},</p>
<p>An order for {{.StoreName}} was cancelled by the customer or automatically.</p>
<p>Reason: {{.Reason}}</p>
{{template "layout_end"}}{{end}}
`))

func renderEmail(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
