// Package chatcomp is the "opaque structured value" spec.md §1 says
// chat components are to the core: the client neither renders nor
// deeply parses them, it only needs to build outgoing ones and hand
// incoming ones to a caller unexamined. Adapted from the teacher's
// pkg/chat.Message, which already has exactly this shape (a small
// struct mirroring vanilla's JSON text component format with a
// String() serializer) — generalized from a server building chat
// broadcasts to a client building ChatMessage payloads and surfacing
// whatever a server's SystemChat/PlayerChat sends as a Component a
// caller can either display raw (ContentJSON) or ignore.
package chatcomp

import "encoding/json"

// Component mirrors vanilla's JSON text component format closely
// enough to build the common cases (plain text, colored text, a
// message built from parts) without reimplementing the full component
// grammar (translatable keys, hover/click events, score components —
// all out of scope per spec.md §1's "chat component serialization"
// exclusion).
type Component struct {
	Text          string      `json:"text"`
	Bold          bool        `json:"bold,omitempty"`
	Italic        bool        `json:"italic,omitempty"`
	Underlined    bool        `json:"underlined,omitempty"`
	Strikethrough bool        `json:"strikethrough,omitempty"`
	Obfuscated    bool        `json:"obfuscated,omitempty"`
	Color         string      `json:"color,omitempty"`
	Extra         []Component `json:"extra,omitempty"`
}

// String serializes the component to the JSON text format vanilla's
// SystemChat/PlayerChat content fields carry.
func (c Component) String() string {
	b, _ := json.Marshal(c)
	return string(b)
}

// Text builds a plain, uncolored component.
func Text(text string) Component {
	return Component{Text: text}
}

// Colored builds a component with a single named or hex color.
func Colored(text, color string) Component {
	return Component{Text: text, Color: color}
}

// Join concatenates components into one, the first carrying the
// formatting and the rest attached as Extra — matching how vanilla
// renders a parent plus its extra array as one continuous line.
func Join(parts ...Component) Component {
	if len(parts) == 0 {
		return Component{}
	}
	head := parts[0]
	if len(parts) > 1 {
		head.Extra = append(append([]Component{}, head.Extra...), parts[1:]...)
	}
	return head
}

// Parse decodes a raw JSON text component, as received on
// SystemChat.ContentJSON or rendered for PlainMsg. A plain (non-JSON)
// string is treated as already-plain text, matching legacy chat
// payloads some servers still send.
func Parse(raw string) Component {
	var c Component
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Text(raw)
	}
	return c
}

// PlainText flattens a component tree to its visible text, ignoring
// all formatting — the common case for a bot that only wants to react
// to message content.
func (c Component) PlainText() string {
	s := c.Text
	for _, e := range c.Extra {
		s += e.PlainText()
	}
	return s
}
