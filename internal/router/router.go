package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/casedesk/caseline/internal/handlers"
	"github.com/casedesk/caseline/internal/middleware"
	"github.com/casedesk/caseline/internal/observability"
	"github.com/casedesk/caseline/internal/stream"
)

func New(
	msgH *handlers.MessageHandler,
	convH *handlers.ConversationHandler,
	receiptH *handlers.ReceiptHandler,
	presenceH *handlers.PresenceHandler,
	nudgeH *handlers.NudgeHandler,
	streamH *stream.Handler,
	serviceName string,
	rateLimitRequests int,
	rateLimitWindow string,
) http.Handler {

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(observability.MetricsMiddleware(serviceName))
	r.Use(middleware.Recovery())

	r.Get("/health/live", observability.HealthLiveHandler)
	r.Get("/health/ready", observability.HealthReadyHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Handle("/ws", streamH)

	r.Group(func(p chi.Router) {
		p.Use(middleware.RateLimit(rateLimitRequests, rateLimitWindow))

		p.Post("/api/messages", msgH.SendMessage)
		p.Post("/api/messages/import", msgH.Ingest)

		p.Get("/api/conversations", convH.ListConversations)
		p.Get("/api/conversations/{threadID}", convH.GetConversation)
		p.Get("/api/unread", convH.UnreadBadges)

		p.Post("/api/delivery-receipt", receiptH.DeliveryReceipt)
		p.Post("/api/read-receipt", receiptH.ReadReceipt)

		p.Post("/api/heartbeat", presenceH.Heartbeat)
		p.Get("/api/presence", presenceH.GetPresence)
		p.Get("/api/online", presenceH.OnlineUsers)

		p.Post("/api/conversations/{threadID}/nudge", nudgeH.Nudge)
	})

	return otelhttp.NewHandler(r, "caseline")
}
