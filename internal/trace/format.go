package trace

import (
	"encoding/json"
	"strconv"
	"time"
)

// Format is the encoding of trace output.
type Format uint8

const (
	FormatAuto Format = iota
	FormatText
	FormatNDJSON
)

// AppendEvent appends one encoded line for ev to dst.
func AppendEvent(dst []byte, ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return appendJSON(dst, ev)
	}
	return appendText(dst, ev)
}

type jsonEvent struct {
	Time   string            `json:"time"`
	Seq    uint64            `json:"seq"`
	Kind   string            `json:"kind"`
	Scope  string            `json:"scope"`
	Span   uint64            `json:"span,omitempty"`
	Parent uint64            `json:"parent,omitempty"`
	Name   string            `json:"name"`
	Detail string            `json:"detail,omitempty"`
	Attrs  map[string]string `json:"attrs,omitempty"`
}

func appendJSON(dst []byte, ev *Event) []byte {
	j := jsonEvent{
		Time:   ev.Time.Format(time.RFC3339Nano),
		Seq:    ev.Seq,
		Kind:   ev.Kind.String(),
		Scope:  ev.Scope.String(),
		Span:   ev.SpanID,
		Parent: ev.ParentID,
		Name:   ev.Name,
		Detail: ev.Detail,
	}
	if len(ev.Attrs) > 0 {
		j.Attrs = make(map[string]string, len(ev.Attrs))
		for _, a := range ev.Attrs {
			j.Attrs[a.Key] = a.Value
		}
	}
	data, err := json.Marshal(j)
	if err != nil {
		return dst
	}
	return append(append(dst, data...), '\n')
}

// appendText renders "15:04:05.000000 #12     pass   > detect (found=2) file=a.go".
func appendText(dst []byte, ev *Event) []byte {
	dst = ev.Time.AppendFormat(dst, "15:04:05.000000")
	dst = append(dst, " #"...)
	seqStart := len(dst)
	dst = strconv.AppendUint(dst, ev.Seq, 10)
	dst = pad(dst, seqStart, 6)
	dst = append(dst, ' ')
	scopeStart := len(dst)
	dst = append(dst, ev.Scope.String()...)
	dst = pad(dst, scopeStart, 7)
	if ev.ParentID != 0 {
		dst = append(dst, "  "...)
	}
	switch ev.Kind {
	case KindBegin:
		dst = append(dst, "> "...)
	case KindEnd:
		dst = append(dst, "< "...)
	case KindHeartbeat:
		dst = append(dst, "~ "...)
	default:
		dst = append(dst, "* "...)
	}
	dst = append(dst, ev.Name...)
	if ev.Detail != "" {
		dst = append(dst, " ("...)
		dst = append(dst, ev.Detail...)
		dst = append(dst, ')')
	}
	for _, a := range ev.Attrs {
		dst = append(dst, ' ')
		dst = append(dst, a.Key...)
		dst = append(dst, '=')
		dst = append(dst, a.Value...)
	}
	return append(dst, '\n')
}

func pad(dst []byte, from, width int) []byte {
	for len(dst)-from < width {
		dst = append(dst, ' ')
	}
	return dst
}
