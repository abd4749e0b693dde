package gateway

import (
	"fmt"

	"github.com/joseph-ayodele/geophoto-tracker/constants"
	"github.com/joseph-ayodele/geophoto-tracker/internal/core"
)

const (
	ReplyExtractionFailed = "❌ Não consegui extrair dados completos da imagem (data, hora, coordenadas e cliente). Foto ignorada."
	ReplyDuplicate        = "⚠️ Foto duplicada detectada. Ignorada."
	ReplyError            = "❌ Erro ao processar mensagem"
	ReplyMapOK            = "✅ Mapa gerado com sucesso!"
	ReplyMapFailed        = "❌ Erro ao gerar mapa"
	ReplyWelcome          = "👋 Bem-vindo ao FDA Bot!\n\n📸 Envie fotos com coordenadas GPS e tags de cliente.\n\nFormato esperado:\n- Linha 1: Data e Hora\n- Linha 2: Coordenadas GPS\n- Linha 3: #Oia NomeCliente"
	ReplyHelp             = "📸 Por favor, envie uma foto com coordenadas GPS.\n\nDigite /start para mais informações."
	IndexText             = "🤖 FDA WhatsApp Bot está funcionando!"

	replyOutsideFmt  = "❌ Coordenadas fora de todas as geofences. Foto ignorada.\n\nCoordenadas: %.6f, %.6f"
	replyAcceptedFmt = "✅ Foto processada com sucesso!\n\n📍 Cliente: %s\n📅 Data: %s\n🗺️ Coordenadas: %.6f, %.6f\n\nMapa será gerado em 60 segundos..."
)

// ReplyFor renders the user-facing text for a processing result.
func ReplyFor(res core.Result) string {
	switch res.Outcome {
	case constants.OutcomeAccepted:
		r := res.Record
		return fmt.Sprintf(replyAcceptedFmt, r.ClientName(), r.Timestamp, r.Latitude, r.Longitude)
	case constants.OutcomeOutsideGeofence:
		return fmt.Sprintf(replyOutsideFmt, res.Record.Latitude, res.Record.Longitude)
	case constants.OutcomeDuplicate:
		return ReplyDuplicate
	case constants.OutcomeExtractionFailed:
		return ReplyExtractionFailed
	default:
		return ReplyError
	}
}
