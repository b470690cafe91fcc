package notify

import (
	"regexp"
	"sync"

	"github.com/rs/zerolog"
)

// Dispatcher envia eventos em segundo plano. Falha de entrega nunca
// derruba a operação que gerou o aviso: fica só no log.
type Dispatcher struct {
	mailer Mailer
	logger zerolog.Logger
	wg     sync.WaitGroup
}

// NewDispatcher cria o despachante de avisos.
func NewDispatcher(mailer Mailer, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{mailer: mailer, logger: logger}
}

// Dispatch agenda o envio do evento e retorna de imediato.
func (d *Dispatcher) Dispatch(ev Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.enviar(ev)
	}()
}

// Wait bloqueia até os envios pendentes terminarem (shutdown e testes).
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) enviar(ev Event) {
	html, err := RenderHTML(ev)
	if err != nil {
		d.logger.Error().Err(err).Str("tipo", string(ev.Tipo)).Msg("falha ao renderizar aviso")
		return
	}

	if err := d.mailer.Send(ev.Para, ev.Assunto, textoPlano(ev), html); err != nil {
		d.logger.Error().Err(err).
			Str("tipo", string(ev.Tipo)).
			Str("para", ev.Para).
			Msg("falha ao enviar aviso")
		return
	}

	d.logger.Info().Str("tipo", string(ev.Tipo)).Str("para", ev.Para).Msg("aviso enviado")
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// textoPlano degrada o corpo HTML para a parte text/plain.
func textoPlano(ev Event) string {
	corpo := tagRe.ReplaceAllString(ev.Corpo, "")
	texto := "Olá, " + ev.Nome + "!\n\n" + corpo
	if ev.BotaoURL != "" {
		texto += "\n\n" + ev.BotaoTexto + ": " + ev.BotaoURL
	}
	return texto
}
