package mailer

import "fmt"

func purchaseConfirmationHTML(customerName, productName, accessLink string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background:#0a0a0a;font-family:Arial,sans-serif;color:#e5e5e5;">
  <div style="max-width:600px;margin:0 auto;padding:32px 24px;">
    <h1 style="color:#ffffff;text-transform:uppercase;letter-spacing:-1px;">Pagamento confirmado</h1>
    <p>Olá, %s!</p>
    <p>Sua compra de <strong>%s</strong> foi confirmada.</p>
    <p style="margin:32px 0;">
      <a href="%s" style="background:#dc2626;color:#ffffff;padding:14px 28px;text-decoration:none;font-weight:bold;text-transform:uppercase;">Acessar agora</a>
    </p>
    <p style="color:#737373;font-size:12px;">Se o botão não funcionar, copie e cole este link no navegador:<br>%s</p>
  </div>
</body>
</html>`, customerName, productName, accessLink, accessLink)
}
