package amqp

import (
	"encoding/json"
	"time"
)

// EventType names a change in the finance state.
type EventType string

const (
	TransactionRecorded EventType = "transaction.recorded"
	BudgetCreated       EventType = "budget.created"
	BudgetRevised       EventType = "budget.revised"
	BudgetExceeded      EventType = "budget.exceeded"
	GoalCreated         EventType = "goal.created"
	GoalContributed     EventType = "goal.contributed"
	GoalCompleted       EventType = "goal.completed"
)

// FinanceEvent is a lightweight notification about a store mutation.
// Amount is a decimal string so consumers never see float rounding.
type FinanceEvent struct {
	Type      EventType `json:"type"`
	EntityID  string    `json:"entity_id"`
	Category  string    `json:"category,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewFinanceEvent creates an event stamped with the current time.
func NewFinanceEvent(t EventType, entityID, category, amount string) FinanceEvent {
	return FinanceEvent{
		Type:      t,
		EntityID:  entityID,
		Category:  category,
		Amount:    amount,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e FinanceEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FinanceEventFromJSON creates an event from JSON bytes
func FinanceEventFromJSON(data []byte) (FinanceEvent, error) {
	var e FinanceEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return FinanceEvent{}, err
	}
	return e, nil
}
