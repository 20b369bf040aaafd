// Package channel abstracts the messaging transport. The bot only needs two
// capabilities from it: an inbound stream of sender+text events and an
// outbound send. Pairing, auth and delivery receipts stay on the gateway side.
package channel

import "context"

// Sender dispatches one outbound text to a channel address. Sends are
// fire-and-forget from the engine's perspective: failures are logged by the
// caller, never relayed to the sender.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

const jidSuffix = "@c.us"

// Address maps a canonical digit-only phone to its channel address.
func Address(phone string) string {
	return digitsOnly(phone) + jidSuffix
}

func digitsOnly(value string) string {
	out := make([]byte, 0, len(value))
	for i := 0; i < len(value); i++ {
		if value[i] >= '0' && value[i] <= '9' {
			out = append(out, value[i])
		}
	}
	return string(out)
}
