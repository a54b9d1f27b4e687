package mail

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

type payloadBuilder struct {
	buf []byte
}

func newEventPayload(name string) *payloadBuilder {
	d := EventDiscriminator(name)
	return &payloadBuilder{buf: append([]byte(nil), d[:]...)}
}

func newInstructionPayload(name string) *payloadBuilder {
	d := InstructionDiscriminator(name)
	return &payloadBuilder{buf: append([]byte(nil), d[:]...)}
}

func (b *payloadBuilder) key(k solana.PublicKey) *payloadBuilder {
	b.buf = append(b.buf, k[:]...)
	return b
}

func (b *payloadBuilder) text(s string) *payloadBuilder {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, uint32(len(s)))
	b.buf = append(b.buf, s...)
	return b
}

func (b *payloadBuilder) u32(v uint32) *payloadBuilder {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, v)
	return b
}

func (b *payloadBuilder) boolean(v bool) *payloadBuilder {
	if v {
		b.buf = append(b.buf, 1)
	} else {
		b.buf = append(b.buf, 0)
	}
	return b
}

func (b *payloadBuilder) raw(p ...byte) *payloadBuilder {
	b.buf = append(b.buf, p...)
	return b
}

func (b *payloadBuilder) bytes() []byte {
	return append([]byte(nil), b.buf...)
}

// cpi wraps an event payload the way a self-invoked event instruction carries it.
func cpi(event []byte) []byte {
	out := append([]byte(nil), EventCPITag[:]...)
	return append(out, event...)
}

func testKey(seed byte) solana.PublicKey {
	var k solana.PublicKey
	for i := range k {
		k[i] = seed
	}
	return k
}
