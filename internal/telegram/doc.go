// Package telegram is a small Bot API client covering what the announcer
// needs: long-polling channel posts, sending photos, and editing the media of
// an earlier message.
//
// Outbound calls share a rate limiter so bursts of flushes stay within the
// per-chat limits the Bot API enforces. Channel adapts the client to the
// publisher's transport contract.
package telegram
