package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
	"github.com/joseph-ayodele/geophoto-tracker/internal/core"
	"github.com/joseph-ayodele/geophoto-tracker/internal/gateway"
)

// ImageProcessor is the submission flow behind the webhook.
type ImageProcessor interface {
	ProcessImage(ctx context.Context, path string) (core.Result, error)
	RenderMap(ctx context.Context) error
}

// MediaFetcher downloads an attachment to a local file.
type MediaFetcher interface {
	Fetch(ctx context.Context, url, contentType string) (path string, cleanup func(), err error)
}

type WebhookHandler struct {
	proc    ImageProcessor
	fetcher MediaFetcher
	logger  *slog.Logger
}

func NewWebhookHandler(proc ImageProcessor, fetcher MediaFetcher, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{proc: proc, fetcher: fetcher, logger: logger}
}

// Webhook always answers 200 with a TwiML reply; failures become the
// generic error text.
func (h *WebhookHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	reply := func() (reply string) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("webhook panic", "panic", rec, "request_id", common.RequestIDFromContext(r.Context()))
				reply = gateway.ReplyError
			}
		}()
		text, err := h.handle(r)
		if err != nil {
			h.logger.Error("webhook failed", "error", err, "request_id", common.RequestIDFromContext(r.Context()))
			return gateway.ReplyError
		}
		return text
	}()

	body, err := gateway.TwiML(reply)
	if err != nil {
		h.logger.Error("twiml render failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (h *WebhookHandler) handle(r *http.Request) (string, error) {
	if err := r.ParseForm(); err != nil {
		return "", fmt.Errorf("%w: parse form: %v", common.ErrInvalidInput, err)
	}
	msg := strings.TrimSpace(r.FormValue("Body"))
	sender := r.FormValue("From")
	ctx := common.WithSender(r.Context(), sender)

	numMedia := 0
	if v := strings.TrimSpace(r.FormValue("NumMedia")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", fmt.Errorf("%w: NumMedia %q", common.ErrInvalidInput, v)
		}
		numMedia = n
	}
	h.logger.Info("message received", "sender", sender, "body", msg, "num_media", numMedia)

	if numMedia > 0 {
		return h.handlePhoto(ctx, r.FormValue("MediaUrl0"), r.FormValue("MediaContentType0"))
	}
	return h.handleCommand(ctx, msg), nil
}

func (h *WebhookHandler) handlePhoto(ctx context.Context, url, contentType string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("%w: MediaUrl0 missing", common.ErrInvalidInput)
	}
	h.logger.Info("photo received", "media_url", url, "sender", common.SenderFromContext(ctx))

	path, cleanup, err := h.fetcher.Fetch(ctx, url, contentType)
	if err != nil {
		return "", err
	}
	defer cleanup()

	res, err := h.proc.ProcessImage(ctx, path)
	if err != nil {
		return "", err
	}
	h.logger.Info("photo processed", "outcome", res.Outcome, "sender", common.SenderFromContext(ctx))
	return gateway.ReplyFor(res), nil
}

func (h *WebhookHandler) handleCommand(ctx context.Context, msg string) string {
	switch strings.ToLower(msg) {
	case "/start":
		return gateway.ReplyWelcome
	case "/mapa":
		if err := h.proc.RenderMap(ctx); err != nil {
			h.logger.Warn("on-demand map failed", "error", err)
			return gateway.ReplyMapFailed
		}
		return gateway.ReplyMapOK
	default:
		return gateway.ReplyHelp
	}
}
