package model

import "time"

// Ticket binds a user's chosen seat (row, cell) to a show. The triple
// (show_id, pos_row, cell) is unique: a seat cannot be booked twice for
// the same show. Tickets are removed together with their parent show.
//
// Fields:
//  ID        – primary key identifier.
//  ShowID    – show the seat is booked for.
//  PosRow    – row position of the seat.
//  Cell      – seat position within the row.
//  UserID    – user who booked the seat.
//  CreatedAt – creation timestamp.
type Ticket struct {
	ID        uint64    // tickets.id
	ShowID    uint64    // tickets.show_id
	PosRow    uint32    // tickets.pos_row
	Cell      uint32    // tickets.cell
	UserID    uint64    // tickets.user_id
	CreatedAt time.Time // tickets.created_at
}
