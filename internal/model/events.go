package model

import "github.com/gagliardetto/solana-go"

// MailSendEvent is emitted when a v1 mail is sent.
type MailSendEvent struct {
	TrxHash string           `json:"trx_hash"`
	From    solana.PublicKey `json:"from"`
	To      solana.PublicKey `json:"to"`
	ID      string           `json:"id"`
}

// MailV2SendEvent is emitted when a v2 mail is sent to a mailbox.
type MailV2SendEvent struct {
	TrxHash string           `json:"trx_hash"`
	From    solana.PublicKey `json:"from"`
	To      solana.PublicKey `json:"to"`
	ID      string           `json:"id"`
	Mailbox solana.PublicKey `json:"mailbox"`
}

// MailV2UpdateEvent carries the full state of a v2 mail after an update.
type MailV2UpdateEvent struct {
	TrxHash    string           `json:"trx_hash"`
	From       solana.PublicKey `json:"from"`
	To         solana.PublicKey `json:"to"`
	ID         string           `json:"id"`
	Mailbox    solana.PublicKey `json:"mailbox"`
	ParentID   string           `json:"parent_id"`
	MarkAsRead bool             `json:"mark_as_read"`
	CreatedAt  uint32           `json:"created_at"`
	Subject    string           `json:"subject"`
	Body       string           `json:"body"`
	Authority  solana.PublicKey `json:"authority"`
	IV         string           `json:"iv"`
	Salt       string           `json:"salt"`
	Version    string           `json:"version"`
}

// MailV2ReadEvent is emitted when a mail is marked read.
type MailV2ReadEvent struct {
	TrxHash string           `json:"trx_hash"`
	ID      string           `json:"id"`
	Owner   solana.PublicKey `json:"owner"`
}

// MailV2UpdateLabelEvent is emitted when a mail label changes.
type MailV2UpdateLabelEvent struct {
	TrxHash string           `json:"trx_hash"`
	ID      string           `json:"id"`
	Owner   solana.PublicKey `json:"owner"`
}

// MailAccountV2RegisterEvent is emitted when a v2 mail account is created.
type MailAccountV2RegisterEvent struct {
	TrxHash string           `json:"trx_hash"`
	Owner   solana.PublicKey `json:"owner"`
	Account solana.PublicKey `json:"account"`
}

// MailAccountV2UpdateEvent is emitted when a v2 mail account is updated.
type MailAccountV2UpdateEvent struct {
	TrxHash string           `json:"trx_hash"`
	Owner   solana.PublicKey `json:"owner"`
	Account solana.PublicKey `json:"account"`
}

func (MailSendEvent) RecordType() RecordType              { return RecordMailSendEvent }
func (MailV2SendEvent) RecordType() RecordType            { return RecordMailV2SendEvent }
func (MailV2UpdateEvent) RecordType() RecordType          { return RecordMailV2UpdateEvent }
func (MailV2ReadEvent) RecordType() RecordType            { return RecordMailV2ReadEvent }
func (MailV2UpdateLabelEvent) RecordType() RecordType     { return RecordMailV2UpdateLabelEvent }
func (MailAccountV2RegisterEvent) RecordType() RecordType { return RecordMailAccountV2RegisterEvent }
func (MailAccountV2UpdateEvent) RecordType() RecordType   { return RecordMailAccountV2UpdateEvent }
