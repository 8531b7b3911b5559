package mail

import (
	"bytes"
	htmltemplate "html/template"
	"math"
	texttemplate "text/template"
	"time"
)

const resetSubject = "Your Sharefolio password reset code"

var resetText = texttemplate.Must(texttemplate.New("reset.txt").Parse(
	`Your OTP for password reset is: {{.Code}}

It is valid for {{.Minutes}} minutes. If you did not ask to reset your password, you can ignore this email.
`))

var resetHTML = htmltemplate.Must(htmltemplate.New("reset.html").Parse(
	`<div style="font-family:sans-serif;max-width:480px">
<h2>Password reset</h2>
<p>Your OTP for password reset is:</p>
<p style="font-size:28px;letter-spacing:6px;font-weight:bold">{{.Code}}</p>
<p>It is valid for {{.Minutes}} minutes. If you did not ask to reset your password, you can ignore this email.</p>
</div>`))

type resetData struct {
	Code    string
	Minutes int
}

// PasswordResetMessage renders the reset-code email for to.
func PasswordResetMessage(to, code string, ttl time.Duration) (Message, error) {
	data := resetData{Code: code, Minutes: int(math.Ceil(ttl.Minutes()))}

	var text, html bytes.Buffer
	if err := resetText.Execute(&text, data); err != nil {
		return Message{}, err
	}
	if err := resetHTML.Execute(&html, data); err != nil {
		return Message{}, err
	}

	return Message{To: to, Subject: resetSubject, Text: text.String(), HTML: html.String()}, nil
}
