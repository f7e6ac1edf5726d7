// Package templates provides email template rendering
package templates

import (
	"bytes"
	"html/template"
	"log"
)

// PasswordResetProps feeds the password recovery email.
type PasswordResetProps struct {
	Name            string
	ResetURL        string
	ExpirationHours int
}

var passwordResetTemplate = template.Must(template.New("passwordReset").Parse(`
<!doctype html>
<html lang="pt-BR">
  <head>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta http-equiv="Content-Type" content="text/html; charset=UTF-8">
    <title>Camali</title>
  </head>
  <body style="font-family: Helvetica, sans-serif; background-color: #D1F0F7; margin: 0; padding: 24px;">
    <div style="max-width: 520px; margin: 0 auto; background: #ffffff; border-radius: 12px; padding: 32px;">
      <h2 style="color: #414562; margin-top: 0;">Olá, {{.Name}}!</h2>
      <p style="color: #333; font-size: 16px;">
        Recebemos um pedido para redefinir a sua senha do Camali.
        Toque no botão abaixo para escolher uma nova senha.
      </p>
      <p style="text-align: center; margin: 32px 0;">
        <a href="{{.ResetURL}}" target="_blank"
           style="background-color: #6EBAD4; color: #ffffff; padding: 12px 28px; border-radius: 20px; text-decoration: none; font-weight: bold;">
          Redefinir senha
        </a>
      </p>
      <p style="color: #555; font-size: 14px;">
        O link expira em {{.ExpirationHours}} hora(s). Se você não pediu a
        redefinição, pode ignorar este email com segurança.
      </p>
    </div>
  </body>
</html>`))

// PasswordResetEmail renders the password recovery email body.
func PasswordResetEmail(props PasswordResetProps) string {
	var buf bytes.Buffer
	if err := passwordResetTemplate.Execute(&buf, props); err != nil {
		log.Printf("ERROR: Failed to render password reset email: %v", err)
		return ""
	}
	return buf.String()
}
