package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template praiano dos e-mails da associação. Cores e estrutura
// seguem a identidade visual do portal.
var praiaTmpl = template.Must(template.New("praia").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Titulo}}</title>
    <style>
        body { margin: 0; padding: 0; background-color: #f4f7f6; font-family: Arial, sans-serif; }
        .container { max-width: 600px; margin: 20px auto; background-color: #ffffff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); border: 1px solid #e2e8f0; }
        .header { background-color: #459894; color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 28px; }
        .content { padding: 30px; color: #4A5568; line-height: 1.7; }
        .content p { margin: 0 0 15px 0; }
        .button-container { text-align: center; margin: 30px 0; }
        .button { background-color: #BFBC8A; color: #ffffff; padding: 15px 25px; text-decoration: none; border-radius: 8px; font-weight: bold; display: inline-block; }
        .footer { background-color: #f7fafc; padding: 20px; text-align: center; font-size: 12px; color: #718096; }
    </style>
</head>
<body>
    {{if .PreCabecalho}}<div style="display: none; max-height: 0; overflow: hidden;">{{.PreCabecalho}}</div>{{end}}
    <div class="container">
        <div class="header"><h1>ALT Ilhabela</h1></div>
        <div class="content">
            <p style="font-size: 18px; font-weight: bold;">Olá, {{.Nome}}!</p>
            {{.Corpo}}
        </div>
        {{if .BotaoURL}}<div class="button-container"><a href="{{.BotaoURL}}" class="button">{{.BotaoTexto}}</a></div>{{end}}
        <div class="footer">
            <p>ALT - Associação de Locação por Temporada de Ilhabela</p>
            <p>Este é um e-mail automático, por favor não responda.</p>
        </div>
    </div>
</body>
</html>`))

type praiaData struct {
	Titulo       string
	PreCabecalho string
	Nome         string
	Corpo        template.HTML
	BotaoTexto   string
	BotaoURL     string
}

// RenderHTML monta o corpo HTML do evento com o tema praiano.
func RenderHTML(ev Event) (string, error) {
	var buf bytes.Buffer
	err := praiaTmpl.Execute(&buf, praiaData{
		Titulo:       ev.Assunto,
		PreCabecalho: ev.PreCabecalho,
		Nome:         ev.Nome,
		Corpo:        template.HTML(ev.Corpo),
		BotaoTexto:   ev.BotaoTexto,
		BotaoURL:     ev.BotaoURL,
	})
	if err != nil {
		return "", fmt.Errorf("renderizar e-mail: %w", err)
	}
	return buf.String(), nil
}
