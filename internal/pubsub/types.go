package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	TopicChallengeResolved EventType = "challenge-resolved"
	TopicTournamentAwarded EventType = "tournament-awarded"
	TopicSeasonReset       EventType = "season-reset"
	TopicRankChanged       EventType = "rank-changed"
)
