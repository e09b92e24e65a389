package port

import "hearing/internal/domain"

// TurnSink receives each turn at the moment it is flushed.
type TurnSink interface {
	Observe(turn domain.ConversationTurn)
}
