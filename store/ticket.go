package store

// TicketStatus indicates the ticket lifecycle state.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// Ticket is a support request escalated to a human agent.
type Ticket struct {
	UserID         string
	ConversationID string
	Subject        string
	Details        string
	Status         TicketStatus
	CreatedTs      int64
	ID             int64
}

type FindTicket struct {
	ID             *int64
	ConversationID *string
	UserID         *string
	Status         *TicketStatus
}

type UpdateTicket struct {
	Status *TicketStatus
	ID     int64
}
