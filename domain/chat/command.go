package chat

import "github.com/google/uuid"

// SendCommand carries a participant's intent to post a message.
type SendCommand struct {
	From string
	To   string
	Text string
	Kind string
}

// EditCommand carries a participant's intent to rewrite one of their messages.
type EditCommand struct {
	ID        uuid.UUID
	Requester string
	To        string
	Text      string
	Kind      string
}
