package restaurant

import (
	"time"

	"github.com/google/uuid"
)

// Actor names used as bus addresses.
const (
	ActorOrderTaker = "order_taker"
	ActorCook       = "cook"
	ActorAssembler  = "assembler"
	ActorWasher     = "washer"
	ActorInjector   = "hazard_injector"
)

// MessageKind identifies the payload type of a message.
type MessageKind string

const (
	// MessageOrder carries an OrderBatch from the order taker to the cook.
	MessageOrder MessageKind = "ORDER"
	// MessageIngredientReady carries an IngredientReady from the cook to the
	// assembler.
	MessageIngredientReady MessageKind = "INGREDIENT_READY"
	// MessageDirtyPlates carries a DirtyPlates report from the order taker to
	// the washer.
	MessageDirtyPlates MessageKind = "DIRTY_PLATES"
	// MessageCleanPlates carries a CleanPlates report from the washer to the
	// assembler.
	MessageCleanPlates MessageKind = "CLEAN_PLATES"
)

// Message is the bus envelope. The bus owns a message from send to delivery;
// the receiving actor owns the payload afterwards.
type Message struct {
	ID      uuid.UUID
	Sender  string
	Kind    MessageKind
	Payload interface{}
	SentAt  time.Time
}

// NewMessage builds an envelope for the given payload.
func NewMessage(sender string, kind MessageKind, payload interface{}) Message {
	return Message{
		ID:      uuid.New(),
		Sender:  sender,
		Kind:    kind,
		Payload: payload,
		SentAt:  time.Now(),
	}
}

// OrderBatch is one order-taking round's worth of new orders.
type OrderBatch struct {
	Dishes []string
}

// IngredientReady reports one successfully processed ingredient.
type IngredientReady struct {
	Status     string
	Ingredient string
	Dish       string
}

// DirtyPlates reports plates collected from tables. The count is advisory;
// the ledger's dirty counter is authoritative.
type DirtyPlates struct {
	Count int
}

// CleanPlates reports plates returned from a finished wash batch.
type CleanPlates struct {
	Count int
}

// OrderBatch extracts and validates an OrderBatch payload.
func (m Message) OrderBatch() (OrderBatch, error) {
	batch, ok := m.Payload.(OrderBatch)
	if !ok {
		return OrderBatch{}, malformed(m, "payload is not an order batch")
	}
	if len(batch.Dishes) == 0 {
		return OrderBatch{}, malformed(m, "order batch is empty")
	}
	for _, dish := range batch.Dishes {
		if dish == "" {
			return OrderBatch{}, malformed(m, "order batch contains an empty dish name")
		}
	}
	return batch, nil
}

// IngredientReady extracts and validates an IngredientReady payload.
func (m Message) IngredientReady() (IngredientReady, error) {
	ready, ok := m.Payload.(IngredientReady)
	if !ok {
		return IngredientReady{}, malformed(m, "payload is not an ingredient report")
	}
	if ready.Status == "" || ready.Ingredient == "" || ready.Dish == "" {
		return IngredientReady{}, malformed(m, "ingredient report has empty fields")
	}
	return ready, nil
}

// DirtyPlates extracts and validates a DirtyPlates payload.
func (m Message) DirtyPlates() (DirtyPlates, error) {
	report, ok := m.Payload.(DirtyPlates)
	if !ok {
		return DirtyPlates{}, malformed(m, "payload is not a dirty-plate report")
	}
	if report.Count < 0 {
		return DirtyPlates{}, malformed(m, "dirty-plate count is negative")
	}
	return report, nil
}

// CleanPlates extracts and validates a CleanPlates payload.
func (m Message) CleanPlates() (CleanPlates, error) {
	report, ok := m.Payload.(CleanPlates)
	if !ok {
		return CleanPlates{}, malformed(m, "payload is not a clean-plate report")
	}
	if report.Count <= 0 {
		return CleanPlates{}, malformed(m, "clean-plate count must be positive")
	}
	return report, nil
}

func malformed(m Message, reason string) *KitchenError {
	return NewPermanentError(reason, nil).
		WithCode(ErrCodeMalformedMessage).
		WithOperation(string(m.Kind))
}
