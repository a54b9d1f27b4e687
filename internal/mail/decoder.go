package mail

import (
	"fmt"

	"mailscope/internal/model"
)

// Decoded is the outcome of classifying and decoding one payload.
type Decoded struct {
	Record        model.Record
	Type          model.RecordType
	Discriminator Discriminator
	// Consumed counts the discriminator plus every declared field.
	Consumed int
}

// DecodeEvent classifies an event payload by its leading discriminator and decodes it.
// ok is false when the payload is shorter than a discriminator or the tag is not a
// known event; that is a skip, not a failure.
func DecodeEvent(payload []byte) (Decoded, bool, error) {
	return dispatch(eventTable, payload)
}

// DecodeInstruction classifies instruction data by its leading discriminator and decodes it.
func DecodeInstruction(data []byte) (Decoded, bool, error) {
	return dispatch(instructionTable, data)
}

// DecodeCPIEvent decodes an event carried inside instruction data behind EventCPITag.
func DecodeCPIEvent(data []byte) (Decoded, bool, error) {
	tag, rest, ok := splitDiscriminator(data)
	if !ok || tag != EventCPITag {
		return Decoded{}, false, nil
	}
	return dispatch(eventTable, rest)
}

// CanDecodeEvent reports whether the payload starts with a known event tag.
func CanDecodeEvent(payload []byte) bool {
	d, _, ok := splitDiscriminator(payload)
	if !ok {
		return false
	}
	_, ok = eventTable[d]
	return ok
}

// CanDecodeInstruction reports whether the data starts with a known instruction tag.
func CanDecodeInstruction(data []byte) bool {
	d, _, ok := splitDiscriminator(data)
	if !ok {
		return false
	}
	_, ok = instructionTable[d]
	return ok
}

func dispatch(table map[Discriminator]recordSpec, payload []byte) (Decoded, bool, error) {
	d, body, ok := splitDiscriminator(payload)
	if !ok {
		return Decoded{}, false, nil
	}
	entry, ok := table[d]
	if !ok {
		return Decoded{Discriminator: d}, false, nil
	}

	record, n, err := entry.Decode(body)
	if err != nil {
		return Decoded{Type: entry.Type, Discriminator: d}, true, fmt.Errorf("decode %s: %w", entry.Type, err)
	}
	return Decoded{
		Record:        record,
		Type:          entry.Type,
		Discriminator: d,
		Consumed:      DiscriminatorSize + n,
	}, true, nil
}
