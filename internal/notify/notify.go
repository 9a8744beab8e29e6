// Package notify carries short success/error messages to the person using
// the dashboard. Messages are advisory and never read back by the program.
package notify

import "sync"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Message struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Collector keeps messages for the current request.
type Collector struct {
	mu   sync.Mutex
	msgs []Message
}

func (c *Collector) Success(msg string) { c.add(KindSuccess, msg) }
func (c *Collector) Error(msg string)   { c.add(KindError, msg) }

func (c *Collector) add(k Kind, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, Message{Kind: k, Text: text})
}

func (c *Collector) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.msgs...)
}

// Last returns the most recent message text of kind k.
func (c *Collector) Last(k Kind) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.msgs) - 1; i >= 0; i-- {
		if c.msgs[i].Kind == k {
			return c.msgs[i].Text
		}
	}
	return ""
}
