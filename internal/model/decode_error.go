package model

// DecodeError records a payload that matched a discriminator but failed to decode.
type DecodeError struct {
	Slot          uint64     `json:"slot"`
	TrxHash       string     `json:"trx_hash"`
	Source        Source     `json:"source"`
	RecordType    RecordType `json:"record_type,omitempty"`
	Discriminator string     `json:"discriminator"`
	Error         string     `json:"error"`
}
