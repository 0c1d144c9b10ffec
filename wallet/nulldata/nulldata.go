// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package nulldata composes the unspendable OP_RETURN scripts that carry
// application data inside a transaction.
package nulldata

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/txscript"
)

// ErrMalformedPayload describes a payload that looked supported but could not
// be turned into a script, e.g. a hex item with an odd number of digits.
var ErrMalformedPayload = errors.New("malformed data payload")

// Kind identifies the shape of a data payload.
type Kind uint8

const (
	// KindUnsupported is any payload shape that has no script form.  It
	// composes to no script at all.
	KindUnsupported Kind = iota

	// KindPushes is an ordered list of items, each pushed after
	// OP_RETURN.
	KindPushes

	// KindScript is the hex encoding of a complete, pre-built script.
	KindScript
)

// String returns the name of the payload kind.
func (k Kind) String() string {
	switch k {
	case KindPushes:
		return "pushes"
	case KindScript:
		return "script"
	default:
		return "unsupported"
	}
}

// Payload is the data a caller wants embedded in a transaction.
type Payload struct {
	kind   Kind
	items  []string
	script string

	// raw keeps the JSON of an unsupported payload so it can be written
	// back out unchanged.
	raw json.RawMessage
}

// NewPushPayload returns a payload pushing each item in order.  Items with a
// 0x or 0X prefix are hex decoded, all others are pushed as their UTF-8 bytes.
func NewPushPayload(items ...string) *Payload {
	return &Payload{
		kind:  KindPushes,
		items: append([]string(nil), items...),
	}
}

// NewScriptPayload returns a payload holding the hex of a pre-built script.
func NewScriptPayload(scriptHex string) *Payload {
	return &Payload{kind: KindScript, script: scriptHex}
}

// Kind returns the shape of the payload.
func (p *Payload) Kind() Kind {
	return p.kind
}

// IsSupported reports whether the payload composes to a script.
func (p *Payload) IsSupported() bool {
	return p.kind != KindUnsupported
}

// Items returns a copy of the push items of a KindPushes payload.
func (p *Payload) Items() []string {
	items := make([]string, len(p.items))
	copy(items, p.items)
	return items
}

// UnmarshalJSON detects the payload shape.  An array of strings becomes a
// push payload and a single string a script payload.  Every other JSON value
// is accepted as an unsupported payload rather than rejected.
func (p *Payload) UnmarshalJSON(b []byte) error {
	*p = Payload{}

	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty JSON value", ErrMalformedPayload)
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		p.kind = KindScript
		p.script = s
		return nil

	case '[':
		var items []string
		if err := json.Unmarshal(trimmed, &items); err == nil {
			p.kind = KindPushes
			p.items = items
			return nil
		}
	}

	if !json.Valid(trimmed) {
		return fmt.Errorf("%w: invalid JSON", ErrMalformedPayload)
	}
	p.kind = KindUnsupported
	p.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

// MarshalJSON writes the payload back in the shape it was read in.
func (p *Payload) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case KindPushes:
		items := p.items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	case KindScript:
		return json.Marshal(p.script)
	default:
		if p.raw == nil {
			return []byte("null"), nil
		}
		return p.raw, nil
	}
}

// Compose returns the script for the payload.  Unsupported and nil payloads,
// and script payloads holding an empty script, compose to a nil script and no
// error.
func Compose(p *Payload) ([]byte, error) {
	if p == nil {
		return nil, nil
	}

	var (
		script []byte
		err    error
	)
	switch p.kind {
	case KindPushes:
		script, err = composePushes(p.items)
	case KindScript:
		script, err = decodeHex(p.script)
		if err == nil && len(script) == 0 {
			return nil, nil
		}
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(script) > txscript.MaxScriptSize {
		return nil, fmt.Errorf("%w: script is %d bytes, max %d",
			ErrMalformedPayload, len(script), txscript.MaxScriptSize)
	}
	return script, nil
}

func composePushes(items []string) ([]byte, error) {
	builder := txscript.NewScriptBuilder()
	builder.AddOp(txscript.OP_RETURN)

	for i, item := range items {
		data := []byte(item)
		if hasHexPrefix(item) {
			var err error
			data, err = decodeHex(item[2:])
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		addRawPush(builder, data)
	}

	script, err := builder.Script()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return script, nil
}

func hasHexPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func decodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return b, nil
}

// addRawPush pushes data with the smallest length prefix, but unlike
// ScriptBuilder.AddData it never rewrites single byte values into small
// integer opcodes.  Data carrier protocols identify themselves by the exact
// bytes of their prefix push.
func addRawPush(builder *txscript.ScriptBuilder, data []byte) {
	n := len(data)
	switch {
	case n == 0:
		builder.AddOp(txscript.OP_0)
		return

	case n < txscript.OP_PUSHDATA1:
		builder.AddOp(byte(txscript.OP_DATA_1 - 1 + n))

	case n <= 0xff:
		builder.AddOps([]byte{txscript.OP_PUSHDATA1, byte(n)})

	case n <= 0xffff:
		var prefix [3]byte
		prefix[0] = txscript.OP_PUSHDATA2
		binary.LittleEndian.PutUint16(prefix[1:], uint16(n))
		builder.AddOps(prefix[:])

	default:
		var prefix [5]byte
		prefix[0] = txscript.OP_PUSHDATA4
		binary.LittleEndian.PutUint32(prefix[1:], uint32(n))
		builder.AddOps(prefix[:])
	}

	builder.AddOps(data)
}
