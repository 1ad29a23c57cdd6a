package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"flightchat/nlp"
)

// Reply types.
const (
	ReplyFlight  = "flight"
	ReplyAI      = "ai"
	ReplyError   = "error"
	ReplyFlights = "flights"
)

type IntentExtractor interface {
	Extract(text string) nlp.TravelIntent
}

type Completer interface {
	Complete(ctx context.Context, text string) (string, error)
}

type FlightProvider interface {
	ResolveAirports(ctx context.Context, departureCity, destinationCity string) (AirportPair, error)
	SearchFlights(ctx context.Context, q FlightQuery) (json.RawMessage, error)
}

// Reply is the answer to a chat message: either the travel intent that was
// found, a chat-completion answer, or an error message.
type Reply struct {
	Type    string            `json:"type"`
	Data    *nlp.TravelIntent `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
}

// TripPlan is a message taken all the way to flight offers. When the message
// could not be planned, Type and Message carry the chat fallback instead.
type TripPlan struct {
	Type     string            `json:"type"`
	Intent   *nlp.TravelIntent `json:"intent,omitempty"`
	Airports *AirportPair      `json:"airports,omitempty"`
	Flights  json.RawMessage   `json:"flights,omitempty"`
	Message  string            `json:"message,omitempty"`
}

type Assistant struct {
	extractor IntentExtractor
	chat      Completer
	flights   FlightProvider
	log       *slog.Logger
}

func NewAssistant(extractor IntentExtractor, chat Completer, flights FlightProvider, log *slog.Logger) *Assistant {
	return &Assistant{extractor: extractor, chat: chat, flights: flights, log: log}
}

// Converse reports the travel intent when the message names two places and
// otherwise asks the chat provider. Chat failures come back as an error
// Reply, never as a Go error.
func (a *Assistant) Converse(ctx context.Context, text string) Reply {
	intent := a.extractor.Extract(text)
	if intent.HasRoute() {
		return Reply{Type: ReplyFlight, Data: &intent}
	}
	return a.askChat(ctx, text)
}

func (a *Assistant) askChat(ctx context.Context, text string) Reply {
	answer, err := a.chat.Complete(ctx, text)
	if err != nil {
		return Reply{Type: ReplyError, Message: err.Error()}
	}
	return Reply{Type: ReplyAI, Message: answer}
}

// PlanTrip goes from message to flight offers when the message has both
// cities and a date. Anything short of that, or any provider failure on the
// way, falls back to the chat provider.
func (a *Assistant) PlanTrip(ctx context.Context, text string) TripPlan {
	intent := a.extractor.Extract(text)
	if !intent.Complete() {
		return a.fallback(ctx, text)
	}

	airports, err := a.flights.ResolveAirports(ctx, *intent.Departure, *intent.Destination)
	if err != nil {
		a.log.InfoContext(ctx, "Trip planning fell back to chat", slog.String("step", "resolve"), slog.Any("error", err))
		return a.fallback(ctx, text)
	}

	offers, err := a.flights.SearchFlights(ctx, FlightQuery{
		OriginCode:          airports.Origin.Code,
		DestinationCode:     airports.Destination.Code,
		OriginEntityID:      airports.Origin.EntityID,
		DestinationEntityID: airports.Destination.EntityID,
		Date:                *intent.Date,
	})
	if err != nil {
		a.log.InfoContext(ctx, "Trip planning fell back to chat", slog.String("step", "search"), slog.Any("error", err))
		return a.fallback(ctx, text)
	}

	return TripPlan{Type: ReplyFlights, Intent: &intent, Airports: &airports, Flights: offers}
}

func (a *Assistant) fallback(ctx context.Context, text string) TripPlan {
	reply := a.askChat(ctx, text)
	return TripPlan{Type: reply.Type, Message: reply.Message}
}
