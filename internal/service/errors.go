package service

import (
	"fmt"
	"time"

	"github.com/membercat-studios/membercat-bot/internal/domain"
	"github.com/membercat-studios/membercat-bot/pkg/util"
)

// Stable error codes for the modmail taxonomy. All of these are recovered
// at the command boundary and turned into a user-visible reply; none are
// fatal.
const (
	CodeAlreadyOpen     = "ALREADY_OPEN"
	CodeBanned          = "BANNED"
	CodeCooldownActive  = "COOLDOWN_ACTIVE"
	CodeNotATicket      = "NOT_A_TICKET_THREAD"
	CodeAlreadyClosed   = "ALREADY_CLOSED"
	CodeTicketClosed    = "TICKET_CLOSED"
	CodeAlreadyBanned   = "ALREADY_BANNED"
	CodeNotBanned       = "NOT_BANNED"
	CodeChannelNotFound = "CHANNEL_NOT_FOUND"
	CodeThreadNotFound  = "THREAD_NOT_FOUND"
	CodeDeliveryFailed  = "DELIVERY_FAILED"
)

func errAlreadyOpen(ticketID string) error {
	return util.NewDomainError(CodeAlreadyOpen,
		fmt.Sprintf("You already have an open modmail (ID: %s). Please wait for it to be closed before creating a new one.", ticketID),
		map[string]any{"ticketId": ticketID})
}

func errBanned(ban *domain.BanRecord) error {
	return util.NewDomainError(CodeBanned,
		fmt.Sprintf("You are banned from opening modmails. Reason: %s", ban.Reason),
		map[string]any{
			"reason":    ban.Reason,
			"moderator": ban.Moderator,
			"bannedAt":  ban.BannedAt,
		})
}

func errCooldownActive(retryAt time.Time) error {
	return util.NewDomainError(CodeCooldownActive,
		fmt.Sprintf("Please wait before opening another modmail. You can try again <t:%d:R>.", retryAt.Unix()),
		map[string]any{"retryAt": retryAt})
}

func errNotATicketThread() error {
	return util.NewDomainError(CodeNotATicket,
		"This channel is not a modmail thread.", nil)
}

func errAlreadyClosed() error {
	return util.NewDomainError(CodeAlreadyClosed,
		"This modmail is already closed.", nil)
}

func errTicketClosed() error {
	return util.NewDomainError(CodeTicketClosed,
		"This modmail is closed or invalid.", nil)
}

func errAlreadyBanned(userID string) error {
	return util.NewDomainError(CodeAlreadyBanned,
		"This user is already banned from modmail.",
		map[string]any{"userId": userID})
}

func errNotBanned(userID string) error {
	return util.NewDomainError(CodeNotBanned,
		"This user is not banned from modmail.",
		map[string]any{"userId": userID})
}

func errChannelNotFound() error {
	return util.NewDomainError(CodeChannelNotFound,
		"No modmail channel found.", nil)
}

func errDeliveryFailed(cause error) error {
	return &util.DomainError{
		Code:    CodeDeliveryFailed,
		Message: "There was an error forwarding your message to the staff team.",
		Err:     cause,
	}
}
