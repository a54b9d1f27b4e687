package mail

import (
	"crypto/sha256"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"mailscope/internal/model"
)

// DiscriminatorSize is the width of the type tag that prefixes every payload.
const DiscriminatorSize = 8

// Discriminator is the 8-byte type tag of an event or instruction payload.
type Discriminator [DiscriminatorSize]byte

func (d Discriminator) String() string {
	return common.Bytes2Hex(d[:])
}

// EventDiscriminator derives the tag of an event from its name.
func EventDiscriminator(name string) Discriminator {
	return sighash("event", name)
}

// InstructionDiscriminator derives the tag of an instruction from its name.
func InstructionDiscriminator(name string) Discriminator {
	return sighash("global", name)
}

func sighash(namespace, name string) Discriminator {
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	var d Discriminator
	copy(d[:], sum[:DiscriminatorSize])
	return d
}

// EventCPITag prefixes instruction data that carries a self-invoked event.
var EventCPITag = Discriminator{0xe4, 0x45, 0xa5, 0x2e, 0x51, 0xcb, 0x9a, 0x1d}

type decodeFunc func(body []byte) (model.Record, int, error)

type recordSpec struct {
	Type   model.RecordType
	Source model.Source
	Name   string
	Decode decodeFunc
}

var eventSpecs = []recordSpec{
	{Type: model.RecordMailSendEvent, Name: "MailSendEvent", Decode: decodeMailSendEvent},
	{Type: model.RecordMailV2SendEvent, Name: "MailV2SendEvent", Decode: decodeMailV2SendEvent},
	{Type: model.RecordMailV2UpdateEvent, Name: "MailV2UpdateEvent", Decode: decodeMailV2UpdateEvent},
	{Type: model.RecordMailV2ReadEvent, Name: "MailV2ReadEvent", Decode: decodeMailV2ReadEvent},
	{Type: model.RecordMailV2UpdateLabelEvent, Name: "MailV2UpdateLabelEvent", Decode: decodeMailV2UpdateLabelEvent},
	{Type: model.RecordMailAccountV2RegisterEvent, Name: "MailAccountV2RegisterEvent", Decode: decodeMailAccountV2RegisterEvent},
	{Type: model.RecordMailAccountV2UpdateEvent, Name: "MailAccountV2UpdateEvent", Decode: decodeMailAccountV2UpdateEvent},
}

var instructionSpecs = []recordSpec{
	{Type: model.RecordCreateMail, Name: "createmail", Decode: decodeCreateMail},
	{Type: model.RecordUpdateMail, Name: "updatemail", Decode: decodeUpdateMail},
	{Type: model.RecordUpdateMailReadStatus, Name: "updatemailreadstatus", Decode: decodeUpdateMailReadStatus},
	{Type: model.RecordUpdateMailLabel, Name: "updatemaillabel", Decode: decodeUpdateMailLabel},
	{Type: model.RecordRegisterV2, Name: "register_v2", Decode: decodeRegisterV2},
	{Type: model.RecordUpdateAccountV2, Name: "update_account_v2", Decode: decodeUpdateAccountV2},
	{Type: model.RecordSendMail, Name: "sendmail", Decode: decodeSendMail},
	{Type: model.RecordRegister, Name: "register", Decode: decodeRegister},
}

var (
	eventTable       map[Discriminator]recordSpec
	instructionTable map[Discriminator]recordSpec
)

func init() {
	eventTable = make(map[Discriminator]recordSpec, len(eventSpecs))
	instructionTable = make(map[Discriminator]recordSpec, len(instructionSpecs))
	seen := make(map[Discriminator]model.RecordType, len(eventSpecs)+len(instructionSpecs)+1)
	seen[EventCPITag] = "event_cpi"

	register := func(table map[Discriminator]recordSpec, d Discriminator, entry recordSpec) {
		if other, ok := seen[d]; ok {
			panic(fmt.Sprintf("discriminator %s shared by %s and %s", d, other, entry.Type))
		}
		seen[d] = entry.Type
		table[d] = entry
	}

	for _, entry := range eventSpecs {
		entry.Source = model.SourceLog
		register(eventTable, EventDiscriminator(entry.Name), entry)
	}
	for _, entry := range instructionSpecs {
		entry.Source = model.SourceInstruction
		register(instructionTable, InstructionDiscriminator(entry.Name), entry)
	}
}

// DiscriminatorOf returns the tag of a known record type.
func DiscriminatorOf(recordType model.RecordType) (Discriminator, bool) {
	for d, entry := range eventTable {
		if entry.Type == recordType {
			return d, true
		}
	}
	for d, entry := range instructionTable {
		if entry.Type == recordType {
			return d, true
		}
	}
	return Discriminator{}, false
}

func splitDiscriminator(payload []byte) (Discriminator, []byte, bool) {
	var d Discriminator
	if len(payload) < DiscriminatorSize {
		return d, nil, false
	}
	copy(d[:], payload[:DiscriminatorSize])
	return d, payload[DiscriminatorSize:], true
}
