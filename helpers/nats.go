package helpers

import (
	"encoding/json"

	"github.com/Gravitalia/gallery/model"
	"github.com/nats-io/nats.go"
)

// Subjects used to publish events
const (
	SubjectLike   = "gallery.like"
	SubjectReport = "moderation.report"
)

var Nats *nats.Conn

// InitNATS starts a new NATS instance. Events are dropped
// if the connection cannot be made.
func InitNATS(url string) {
	if url == "" {
		Logger.Warn().Msg("NATS_URL is empty, events will not be published")
		return
	}

	connection, err := nats.Connect(url, nats.Name("gravitalia-gallery"))
	if err != nil {
		Logger.Error().Err(err).Str("url", url).Msg("cannot connect to NATS")
		return
	}

	Nats = connection
}

// Publish allows publishing message on NATS
func Publish(subject string, message []byte) {
	if Nats == nil {
		return
	}

	if err := Nats.Publish(subject, message); err != nil {
		Logger.Error().Err(err).Str("subject", subject).Msg("failed to publish message")
	}
}

// PublishEvent encodes the event and publishes it
func PublishEvent(subject string, event any) {
	message, err := json.Marshal(event)
	if err != nil {
		Logger.Error().Err(err).Str("subject", subject).Msg("failed to encode event")
		return
	}

	Publish(subject, message)
}

// NotifyLike tells the author of a post that it has been liked
func NotifyLike(from, author string) {
	PublishEvent(SubjectLike, model.Message{
		Type: "like",
		From: from,
		To:   author,
	})
}
