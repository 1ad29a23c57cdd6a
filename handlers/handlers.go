package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"flightchat/nlp"
	"flightchat/services"

	"github.com/gin-gonic/gin"
)

type Extractor interface {
	Extract(text string) nlp.TravelIntent
}

type Assistant interface {
	Converse(ctx context.Context, text string) services.Reply
	PlanTrip(ctx context.Context, text string) services.TripPlan
}

type FlightProvider interface {
	ResolveAirports(ctx context.Context, departureCity, destinationCity string) (services.AirportPair, error)
	SearchFlights(ctx context.Context, q services.FlightQuery) (json.RawMessage, error)
}

// ModelStatus reports whether the NER model is ready.
type ModelStatus interface {
	Loaded() bool
}

type Handler struct {
	extractor Extractor
	ner       ModelStatus
	assistant Assistant
	flights   FlightProvider
	log       *slog.Logger
}

func New(extractor Extractor, ner ModelStatus, assistant Assistant, flights FlightProvider, log *slog.Logger) *Handler {
	return &Handler{
		extractor: extractor,
		ner:       ner,
		assistant: assistant,
		flights:   flights,
		log:       log,
	}
}

// Register mounts the chat and flight routes.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/health", h.Health)
	r.POST("/get_response", h.GetResponse)
	r.POST("/chat_with_ai", h.ChatWithAI)
	r.POST("/plan_trip", h.PlanTrip)
	r.GET("/get_airport_codes", h.GetAirportCodes)
	r.GET("/get_flight", h.GetFlight)
}
