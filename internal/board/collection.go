package board

import "github.com/vovakirdan/msgboard/internal/proto"

// Collection is the client-side list of messages in display order.
// Mutators return a new slice and never touch the receiver's backing array,
// so snapshots handed to the UI stay stable.
type Collection []proto.Message

// Append adds msg at the end.
func (c Collection) Append(msg proto.Message) Collection {
	out := make(Collection, len(c), len(c)+1)
	copy(out, c)
	return append(out, msg)
}

// ReplaceText sets the text of every record with id, keeping positions.
func (c Collection) ReplaceText(id int64, text string) Collection {
	out := make(Collection, len(c))
	copy(out, c)
	for i := range out {
		if out[i].ID == id {
			out[i].Message = text
		}
	}
	return out
}

// Remove drops every record with id. The rest keep their relative order.
func (c Collection) Remove(id int64) Collection {
	out := make(Collection, 0, len(c))
	for _, msg := range c {
		if msg.ID != id {
			out = append(out, msg)
		}
	}
	return out
}

// Find returns the record with id.
func (c Collection) Find(id int64) (proto.Message, bool) {
	for _, msg := range c {
		if msg.ID == id {
			return msg, true
		}
	}
	return proto.Message{}, false
}
