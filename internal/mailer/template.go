package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"time"

	"github.com/solofarma/alerts/internal/models"
)

// formatCLP renders a price as Chilean pesos with dot thousand separators,
// e.g. 12990 -> "12.990".
func formatCLP(value float64) string {
	digits := strconv.FormatInt(int64(math.Round(math.Abs(value))), 10)

	var buf bytes.Buffer
	if value < 0 {
		buf.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead > 0 {
		buf.WriteString(digits[:lead])
		if len(digits) > lead {
			buf.WriteByte('.')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		buf.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			buf.WriteByte('.')
		}
	}
	return buf.String()
}

var priceAlertTmpl = template.Must(template.New("priceAlert").Funcs(template.FuncMap{
	"money": formatCLP,
}).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f4f4f4;">
  <table width="100%" cellpadding="0" cellspacing="0" style="background-color: #f4f4f4; padding: 20px;">
    <tr>
      <td align="center">
        <table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px; overflow: hidden;">
          <tr>
            <td style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 30px; text-align: center;">
              <h1 style="color: #ffffff; margin: 0; font-size: 28px;">¡Buenas noticias!</h1>
              <p style="color: #ffffff; margin: 10px 0 0 0; font-size: 16px;">El precio bajó</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 30px 40px 20px 40px;">
              <p style="margin: 0; font-size: 16px; color: #333333;">Hola <strong>{{.UserName}}</strong>,</p>
              <p style="margin: 15px 0 0 0; font-size: 16px; color: #666666; line-height: 1.5;">
                El medicamento que estás siguiendo ha bajado de precio. ¡Es el momento perfecto para comprarlo!
              </p>
            </td>
          </tr>
          <tr>
            <td style="padding: 0 40px 20px 40px;">
              <table width="100%" cellpadding="0" cellspacing="0" style="background-color: #f8f9fa; border-radius: 8px; padding: 20px;">
                <tr>
                  <td>
                    <h2 id="product-name" style="margin: 0 0 10px 0; font-size: 20px; color: #333333;">{{.Product.Name}}</h2>
                    <p style="margin: 5px 0; font-size: 14px; color: #666666;">
                      <strong>Laboratorio:</strong> {{if .Product.Manufacturer}}{{.Product.Manufacturer}}{{else}}No especificado{{end}}
                    </p>
                    <p style="margin: 5px 0; font-size: 14px; color: #666666;">
                      <strong>Presentación:</strong> {{if .Product.Presentation}}{{.Product.Presentation}}{{else}}No especificado{{end}}
                    </p>
                    <p style="margin: 5px 0; font-size: 14px; color: #666666;">
                      <strong>Farmacia:</strong> {{.Product.Pharmacy}}
                    </p>
                  </td>
                </tr>
              </table>
            </td>
          </tr>
          <tr>
            <td style="padding: 0 40px 30px 40px;">
              <table width="100%" cellpadding="0" cellspacing="0">
                <tr>
                  <td width="50%" style="padding-right: 10px;">
                    <div style="background-color: #fee; border-radius: 8px; padding: 20px; text-align: center;">
                      <p style="margin: 0; font-size: 12px; color: #999; text-transform: uppercase;">Precio anterior</p>
                      <p id="previous-price" style="margin: 10px 0 0 0; font-size: 28px; color: #e53e3e; font-weight: bold; text-decoration: line-through;">
                        ${{money .PreviousPrice}}
                      </p>
                    </div>
                  </td>
                  <td width="50%" style="padding-left: 10px;">
                    <div style="background-color: #d4edda; border-radius: 8px; padding: 20px; text-align: center;">
                      <p style="margin: 0; font-size: 12px; color: #155724; text-transform: uppercase;">Precio actual</p>
                      <p id="current-price" style="margin: 10px 0 0 0; font-size: 28px; color: #28a745; font-weight: bold;">
                        ${{money .CurrentPrice}}
                      </p>
                    </div>
                  </td>
                </tr>
              </table>
            </td>
          </tr>
          <tr>
            <td style="padding: 0 40px 30px 40px; text-align: center;">
              <div id="savings" style="background: linear-gradient(135deg, #f093fb 0%, #f5576c 100%); border-radius: 50px; display: inline-block; padding: 15px 30px;">
                <p style="margin: 0; color: #ffffff; font-size: 18px; font-weight: bold;">
                  ¡Ahorras ${{money .Discount}} ({{printf "%.1f" .DiscountPercent}}%)!
                </p>
              </div>
            </td>
          </tr>
          <tr>
            <td style="padding: 0 40px 30px 40px; text-align: center;">
              <a id="cta-link" href="{{.Product.URL}}"
                 style="display: inline-block; background-color: #667eea; color: #ffffff; text-decoration: none; padding: 15px 40px; border-radius: 50px; font-size: 16px; font-weight: bold;">
                Ver en {{.Product.Pharmacy}} →
              </a>
            </td>
          </tr>
          <tr>
            <td style="padding: 20px 40px; background-color: #f8f9fa; text-align: center; border-top: 1px solid #e9ecef;">
              <p style="margin: 0; font-size: 12px; color: #999999;">
                Recibiste este correo porque activaste una alerta de precio en SoloFarma
              </p>
              <p style="margin: 10px 0 0 0; font-size: 12px; color: #999999;">
                © {{.Year}} SoloFarma - Comparador de precios de medicamentos en Chile
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`))

type templateData struct {
	models.NotificationPayload
	Year int
}

// renderBody executes the price alert template for one payload.
func renderBody(payload models.NotificationPayload) (string, error) {
	var buf bytes.Buffer
	data := templateData{NotificationPayload: payload, Year: time.Now().Year()}
	if err := priceAlertTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render price alert template: %w", err)
	}
	return buf.String(), nil
}
