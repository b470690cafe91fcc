// Package notify entrega avisos por e-mail aos usuários do portal sem
// bloquear a requisição que os originou.
package notify

// TipoEvento classifica o aviso enviado.
type TipoEvento string

const (
	EventoBemVindo        TipoEvento = "bem_vindo"
	EventoRecusado        TipoEvento = "recusado"
	EventoImovelAprovado  TipoEvento = "imovel_aprovado"
	EventoImovelRecusado  TipoEvento = "imovel_recusado"
	EventoSenhaRecuperada TipoEvento = "senha_recuperada"
	EventoAviso           TipoEvento = "aviso"
)

// Event é um aviso pronto para envio. Corpo aceita HTML simples
// (parágrafos); o template praiano embrulha o resto.
type Event struct {
	Tipo         TipoEvento
	Para         string
	Nome         string
	Assunto      string
	PreCabecalho string
	Corpo        string

	// Botão opcional de chamada para ação.
	BotaoTexto string
	BotaoURL   string
}
