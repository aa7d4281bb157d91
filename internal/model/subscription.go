package model

import (
	"errors"
	"time"
)

// Subscription links a subscriber to a channel (both users).
// At most one row exists per (subscriber, channel) pair.
type Subscription struct {
	ID           int64     `db:"id" json:"id"`
	SubscriberID int64     `db:"subscriber_id" json:"subscriberId"`
	ChannelID    int64     `db:"channel_id" json:"channelId"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Subscriber is a subscriber-list row with the joined user details.
type Subscriber struct {
	SubscribedAt time.Time   `db:"subscribed_at" json:"subscribedAt"`
	User         UserSummary `json:"subscriber"`
}

// SubscribedChannel is a subscribed-channels row with the joined channel details.
type SubscribedChannel struct {
	SubscribedAt time.Time   `db:"subscribed_at" json:"subscribedAt"`
	Channel      UserSummary `json:"channel"`
}

var (
	ErrCannotSubscribeSelf = errors.New("cannot subscribe to own channel")
)
