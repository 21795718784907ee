package entity

import (
	"fmt"
	"time"
)

// FriendRequestStatus is the closed set of request states.
// StatusNone is never persisted; it stands for "no row between the pair".
type FriendRequestStatus string

const (
	StatusNone     FriendRequestStatus = ""
	StatusPending  FriendRequestStatus = "pending"
	StatusAccepted FriendRequestStatus = "accepted"
)

var transitions = map[FriendRequestStatus][]FriendRequestStatus{
	StatusNone:    {StatusPending},
	StatusPending: {StatusAccepted},
}

// Valid reports whether s is a persistable status.
func (s FriendRequestStatus) Valid() bool {
	return s == StatusPending || s == StatusAccepted
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to FriendRequestStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// FriendRequest links a sender and a recipient. Rows are never deleted.
type FriendRequest struct {
	ID          string              `json:"id"`
	SenderID    string              `json:"sender"`
	RecipientID string              `json:"recipient"`
	Status      FriendRequestStatus `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	AcceptedAt  *time.Time          `json:"acceptedAt,omitempty"`
}

// Transition moves the request to the next status or fails if the table forbids it.
func (fr *FriendRequest) Transition(to FriendRequestStatus) error {
	if !CanTransition(fr.Status, to) {
		return fmt.Errorf("friend request %s: transition %q -> %q not allowed", fr.ID, fr.Status, to)
	}
	fr.Status = to
	return nil
}

// FriendRequestView is a request joined with the other party's profile.
type FriendRequestView struct {
	FriendRequest
	Counterpart UserSummary `json:"counterpart"`
}

// PairKey orders two user ids so both directions map to the same key.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}
