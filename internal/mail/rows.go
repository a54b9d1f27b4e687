package mail

import (
	"fmt"

	"mailscope/internal/model"
)

// PrimaryKeyColumn is the column every row table is keyed on.
const PrimaryKeyColumn = "id"

const (
	TableMailSendEvent              = "mail_send_event"
	TableMailV2SendEvent            = "mail_v2_send_event"
	TableMailV2UpdateEvent          = "mail_v2_update_event"
	TableMailV2ReadEvent            = "mail_v2_read_event"
	TableMailV2UpdateLabelEvent     = "mail_v2_update_label_event"
	TableMailAccountV2RegisterEvent = "mail_account_v2_register_event"
	TableMailAccountV2UpdateEvent   = "mail_account_v2_update_event"

	TableCreateMail           = "createmail_instruction"
	TableUpdateMail           = "updatemail_instruction"
	TableUpdateMailReadStatus = "updatemailreadstatus_instruction"
	TableUpdateMailLabel      = "updatemaillabel_instruction"
	TableRegisterV2           = "register_v2_instruction"
	TableUpdateAccountV2      = "update_account_v2_instruction"
	TableSendMail             = "sendmail_instruction"
	TableRegister             = "register_instruction"
)

var tableSchemas = []model.TableSchema{
	{Name: TableMailSendEvent, Columns: []string{"trx_hash", "from_address", "to_address", "mail_id"}},
	{Name: TableMailV2SendEvent, Columns: []string{"trx_hash", "from_address", "to_address", "mail_id", "mailbox"}},
	{Name: TableMailV2UpdateEvent, Columns: []string{
		"trx_hash", "from_address", "to_address", "mail_id", "mailbox", "parent_id", "mark_as_read",
		"created_at_timestamp", "subject", "body", "authority", "iv", "salt", "version",
	}},
	{Name: TableMailV2ReadEvent, Columns: []string{"trx_hash", "mail_id", "owner"}},
	{Name: TableMailV2UpdateLabelEvent, Columns: []string{"trx_hash", "mail_id", "owner"}},
	{Name: TableMailAccountV2RegisterEvent, Columns: []string{"trx_hash", "owner", "account"}},
	{Name: TableMailAccountV2UpdateEvent, Columns: []string{"trx_hash", "owner", "account"}},

	{Name: TableCreateMail, Columns: []string{
		"trx_hash", "subject", "from_address", "to_address", "salt", "iv", "version", "parent_id",
		"acct_mail", "acct_mail_account_v2", "acct_authority", "acct_system_program",
	}},
	{Name: TableUpdateMail, Columns: []string{"trx_hash", "body", "acct_mail", "acct_authority", "acct_system_program"}},
	{Name: TableUpdateMailReadStatus, Columns: []string{"trx_hash", "acct_mail", "acct_authority", "acct_system_program"}},
	{Name: TableUpdateMailLabel, Columns: []string{"trx_hash", "label", "acct_mail", "acct_authority", "acct_system_program"}},
	{Name: TableRegisterV2, Columns: []string{"trx_hash", "nostr_key", "acct_mail_account_v2", "acct_authority", "acct_system_program"}},
	{Name: TableUpdateAccountV2, Columns: []string{"trx_hash", "nostr_key", "mailbox", "acct_mail_account_v2", "acct_authority"}},
	{Name: TableSendMail, Columns: []string{
		"trx_hash", "subject", "body", "from_address", "to_address", "salt", "iv", "version",
		"acct_mail", "acct_authority", "acct_system_program",
	}},
	{Name: TableRegister, Columns: []string{"trx_hash", "nostr_key", "acct_mail_account", "acct_authority", "acct_system_program"}},
}

var schemaByTable map[string]model.TableSchema

func init() {
	schemaByTable = make(map[string]model.TableSchema, len(tableSchemas))
	for _, s := range tableSchemas {
		schemaByTable[s.Name] = s
	}
}

// Tables returns the schema of every row table, in a fixed order.
func Tables() []model.TableSchema {
	out := make([]model.TableSchema, len(tableSchemas))
	for i, s := range tableSchemas {
		out[i] = model.TableSchema{Name: s.Name, Columns: append([]string(nil), s.Columns...)}
	}
	return out
}

// TableSchemaOf returns the schema of a named row table.
func TableSchemaOf(table string) (model.TableSchema, bool) {
	s, ok := schemaByTable[table]
	return s, ok
}

// BuildRow maps an assembled record to its database row. Rendering is pure: the same
// record always yields the same row and key.
func BuildRow(record model.Record) (model.DatabaseRow, error) {
	switch r := record.(type) {
	case model.MailSendEvent:
		from, to := keyString(r.From), keyString(r.To)
		return newRow(TableMailSendEvent,
			DeriveKey(r.TrxHash, from, to, r.ID),
			r.TrxHash, from, to, r.ID)

	case model.MailV2SendEvent:
		from, to, mailbox := keyString(r.From), keyString(r.To), keyString(r.Mailbox)
		return newRow(TableMailV2SendEvent,
			DeriveKey(r.TrxHash, from, to, r.ID, mailbox),
			r.TrxHash, from, to, r.ID, mailbox)

	case model.MailV2UpdateEvent:
		from, to, mailbox := keyString(r.From), keyString(r.To), keyString(r.Mailbox)
		read, created := boolString(r.MarkAsRead), u32String(r.CreatedAt)
		return newRow(TableMailV2UpdateEvent,
			DeriveKey(r.TrxHash, from, to, r.ID, mailbox, r.ParentID, read, created),
			r.TrxHash, from, to, r.ID, mailbox, r.ParentID, read, created,
			r.Subject, r.Body, keyString(r.Authority), r.IV, r.Salt, r.Version)

	case model.MailV2ReadEvent:
		owner := keyString(r.Owner)
		return newRow(TableMailV2ReadEvent,
			DeriveKey(r.TrxHash, r.ID, owner),
			r.TrxHash, r.ID, owner)

	case model.MailV2UpdateLabelEvent:
		owner := keyString(r.Owner)
		return newRow(TableMailV2UpdateLabelEvent,
			DeriveKey(r.TrxHash, r.ID, owner),
			r.TrxHash, r.ID, owner)

	case model.MailAccountV2RegisterEvent:
		owner, account := keyString(r.Owner), keyString(r.Account)
		return newRow(TableMailAccountV2RegisterEvent,
			DeriveKey(r.TrxHash, owner, account),
			r.TrxHash, owner, account)

	case model.MailAccountV2UpdateEvent:
		owner, account := keyString(r.Owner), keyString(r.Account)
		return newRow(TableMailAccountV2UpdateEvent,
			DeriveKey(r.TrxHash, owner, account),
			r.TrxHash, owner, account)

	case model.CreateMail:
		from, to := keyString(r.From), keyString(r.To)
		return newRow(TableCreateMail,
			DeriveKey(r.TrxHash, r.Subject, from, to, r.Salt, r.IV, r.Version, r.ParentID),
			r.TrxHash, r.Subject, from, to, r.Salt, r.IV, r.Version, r.ParentID,
			r.AcctMail, r.AcctMailAccountV2, r.AcctAuthority, r.AcctSystemProgram)

	case model.UpdateMail:
		return newRow(TableUpdateMail,
			DeriveKey(r.TrxHash, r.Body, r.AcctMail),
			r.TrxHash, r.Body, r.AcctMail, r.AcctAuthority, r.AcctSystemProgram)

	case model.UpdateMailReadStatus:
		return newRow(TableUpdateMailReadStatus,
			DeriveKey(r.TrxHash, r.AcctMail),
			r.TrxHash, r.AcctMail, r.AcctAuthority, r.AcctSystemProgram)

	case model.UpdateMailLabel:
		label := u32String(r.Label)
		return newRow(TableUpdateMailLabel,
			DeriveKey(r.TrxHash, label, r.AcctMail),
			r.TrxHash, label, r.AcctMail, r.AcctAuthority, r.AcctSystemProgram)

	case model.RegisterV2:
		return newRow(TableRegisterV2,
			DeriveKey(r.TrxHash, r.NostrKey),
			r.TrxHash, r.NostrKey, r.AcctMailAccountV2, r.AcctAuthority, r.AcctSystemProgram)

	case model.UpdateAccountV2:
		mailbox := keyString(r.Mailbox)
		return newRow(TableUpdateAccountV2,
			DeriveKey(r.TrxHash, r.NostrKey, mailbox),
			r.TrxHash, r.NostrKey, mailbox, r.AcctMailAccountV2, r.AcctAuthority)

	case model.SendMail:
		from, to := keyString(r.From), keyString(r.To)
		return newRow(TableSendMail,
			DeriveKey(r.TrxHash, r.Subject, r.Body, from, to, r.Salt, r.IV, r.Version),
			r.TrxHash, r.Subject, r.Body, from, to, r.Salt, r.IV, r.Version,
			r.AcctMail, r.AcctAuthority, r.AcctSystemProgram)

	case model.Register:
		return newRow(TableRegister,
			DeriveKey(r.TrxHash, r.NostrKey),
			r.TrxHash, r.NostrKey, r.AcctMailAccount, r.AcctAuthority, r.AcctSystemProgram)

	default:
		return model.DatabaseRow{}, fmt.Errorf("no row mapping for %T", record)
	}
}

func newRow(table, pk string, values ...string) (model.DatabaseRow, error) {
	schema, ok := schemaByTable[table]
	if !ok {
		return model.DatabaseRow{}, fmt.Errorf("unknown table %s", table)
	}
	if len(values) != len(schema.Columns) {
		return model.DatabaseRow{}, fmt.Errorf("table %s: %d values for %d columns", table, len(values), len(schema.Columns))
	}
	cols := make([]model.Column, len(values))
	for i, v := range values {
		cols[i] = model.Column{Name: schema.Columns[i], Value: v}
	}
	return model.DatabaseRow{Table: table, PK: pk, Columns: cols}, nil
}
