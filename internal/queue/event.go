// Package queue defines the booking event payload and the RabbitMQ
// publisher and consumer that exchange it.
package queue

// TicketBookedEvent is published when a seat is successfully booked. It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type TicketBookedEvent struct {
	TicketID   uint64 `json:"ticket_id"`
	UserID     uint64 `json:"user_id"`
	ShowID     uint64 `json:"show_id"`
	ShowTitle  string `json:"show_title"`
	StartsAt   string `json:"starts_at"`
	PosRow     uint32 `json:"pos_row"`
	Cell       uint32 `json:"cell"`
	PriceCents uint32 `json:"price_cents"`
	BookedAt   string `json:"booked_at"`
}
