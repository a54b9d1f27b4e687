package model

import "github.com/gagliardetto/solana-go"

// CreateMail is the createmail instruction.
type CreateMail struct {
	TrxHash  string           `json:"trx_hash"`
	Subject  string           `json:"subject"`
	From     solana.PublicKey `json:"from"`
	To       solana.PublicKey `json:"to"`
	Salt     string           `json:"salt"`
	IV       string           `json:"iv"`
	Version  string           `json:"version"`
	ParentID string           `json:"parent_id"`

	AcctMail          string `json:"acct_mail"`
	AcctMailAccountV2 string `json:"acct_mail_account_v2"`
	AcctAuthority     string `json:"acct_authority"`
	AcctSystemProgram string `json:"acct_system_program"`
}

// UpdateMail is the updatemail instruction.
type UpdateMail struct {
	TrxHash string `json:"trx_hash"`
	Body    string `json:"body"`

	AcctMail          string `json:"acct_mail"`
	AcctAuthority     string `json:"acct_authority"`
	AcctSystemProgram string `json:"acct_system_program"`
}

// UpdateMailReadStatus is the updatemailreadstatus instruction. It has no arguments.
type UpdateMailReadStatus struct {
	TrxHash string `json:"trx_hash"`

	AcctMail          string `json:"acct_mail"`
	AcctAuthority     string `json:"acct_authority"`
	AcctSystemProgram string `json:"acct_system_program"`
}

// UpdateMailLabel is the updatemaillabel instruction.
type UpdateMailLabel struct {
	TrxHash string `json:"trx_hash"`
	Label   uint32 `json:"label"`

	AcctMail          string `json:"acct_mail"`
	AcctAuthority     string `json:"acct_authority"`
	AcctSystemProgram string `json:"acct_system_program"`
}

// RegisterV2 is the register_v2 instruction.
type RegisterV2 struct {
	TrxHash  string `json:"trx_hash"`
	NostrKey string `json:"nostr_key"`

	AcctMailAccountV2 string `json:"acct_mail_account_v2"`
	AcctAuthority     string `json:"acct_authority"`
	AcctSystemProgram string `json:"acct_system_program"`
}

// UpdateAccountV2 is the update_account_v2 instruction.
type UpdateAccountV2 struct {
	TrxHash  string           `json:"trx_hash"`
	NostrKey string           `json:"nostr_key"`
	Mailbox  solana.PublicKey `json:"mailbox"`

	AcctMailAccountV2 string `json:"acct_mail_account_v2"`
	AcctAuthority     string `json:"acct_authority"`
}

// SendMail is the sendmail instruction.
type SendMail struct {
	TrxHash string           `json:"trx_hash"`
	Subject string           `json:"subject"`
	Body    string           `json:"body"`
	From    solana.PublicKey `json:"from"`
	To      solana.PublicKey `json:"to"`
	Salt    string           `json:"salt"`
	IV      string           `json:"iv"`
	Version string           `json:"version"`

	AcctMail          string `json:"acct_mail"`
	AcctAuthority     string `json:"acct_authority"`
	AcctSystemProgram string `json:"acct_system_program"`
}

// Register is the v1 register instruction.
type Register struct {
	TrxHash  string `json:"trx_hash"`
	NostrKey string `json:"nostr_key"`

	AcctMailAccount   string `json:"acct_mail_account"`
	AcctAuthority     string `json:"acct_authority"`
	AcctSystemProgram string `json:"acct_system_program"`
}

func (CreateMail) RecordType() RecordType           { return RecordCreateMail }
func (UpdateMail) RecordType() RecordType           { return RecordUpdateMail }
func (UpdateMailReadStatus) RecordType() RecordType { return RecordUpdateMailReadStatus }
func (UpdateMailLabel) RecordType() RecordType      { return RecordUpdateMailLabel }
func (RegisterV2) RecordType() RecordType           { return RecordRegisterV2 }
func (UpdateAccountV2) RecordType() RecordType      { return RecordUpdateAccountV2 }
func (SendMail) RecordType() RecordType             { return RecordSendMail }
func (Register) RecordType() RecordType             { return RecordRegister }

// MailLabel is the numeric label carried by updatemaillabel.
type MailLabel uint32

const (
	LabelOutbox MailLabel = iota
	LabelInbox
	LabelRead
	LabelTrash
	LabelSpam
)

func (l MailLabel) String() string {
	switch l {
	case LabelOutbox:
		return "outbox"
	case LabelInbox:
		return "inbox"
	case LabelRead:
		return "read"
	case LabelTrash:
		return "trash"
	case LabelSpam:
		return "spam"
	default:
		return "unknown"
	}
}
