package restaurant

import (
	"context"
	"sync"
)

// MessageBus delivers addressed asynchronous messages between named actors.
// Each actor has an unbounded FIFO mailbox; messages from one sender to one
// recipient are delivered in send order. Sends never block.
type MessageBus struct {
	mu        sync.Mutex
	mailboxes map[string]*mailbox
}

type mailbox struct {
	mu     sync.Mutex
	queue  []Message
	notify chan struct{}
}

// NewMessageBus creates an empty bus. Mailboxes are created on first use.
func NewMessageBus() *MessageBus {
	return &MessageBus{
		mailboxes: make(map[string]*mailbox),
	}
}

func (b *MessageBus) box(actor string) *mailbox {
	b.mu.Lock()
	defer b.mu.Unlock()
	box, ok := b.mailboxes[actor]
	if !ok {
		box = &mailbox{notify: make(chan struct{}, 1)}
		b.mailboxes[actor] = box
	}
	return box
}

// Send appends the message to each recipient's mailbox.
func (b *MessageBus) Send(msg Message, recipients ...string) {
	for _, recipient := range recipients {
		box := b.box(recipient)
		box.mu.Lock()
		box.queue = append(box.queue, msg)
		box.mu.Unlock()
		select {
		case box.notify <- struct{}{}:
		default:
		}
	}
}

// Receive blocks until a message is available in the actor's mailbox or the
// context is cancelled.
func (b *MessageBus) Receive(ctx context.Context, actor string) (Message, error) {
	box := b.box(actor)
	for {
		box.mu.Lock()
		if len(box.queue) > 0 {
			msg := box.queue[0]
			box.queue = box.queue[1:]
			box.mu.Unlock()
			return msg, nil
		}
		box.mu.Unlock()

		select {
		case <-ctx.Done():
			return Message{}, NewTransientError("receive cancelled", ctx.Err()).
				WithCode(ErrCodeInterrupted).
				WithOperation("receive")
		case <-box.notify:
		}
	}
}

// TryReceive pops the next message without blocking. The second return value
// is false if the mailbox is empty.
func (b *MessageBus) TryReceive(actor string) (Message, bool) {
	box := b.box(actor)
	box.mu.Lock()
	defer box.mu.Unlock()
	if len(box.queue) == 0 {
		return Message{}, false
	}
	msg := box.queue[0]
	box.queue = box.queue[1:]
	return msg, true
}

// Pending returns the number of undelivered messages for the actor.
func (b *MessageBus) Pending(actor string) int {
	box := b.box(actor)
	box.mu.Lock()
	defer box.mu.Unlock()
	return len(box.queue)
}
