package mail

import (
	"fmt"

	"mailscope/internal/model"
)

// TransactionContext is the transaction-level data attached to a decoded record.
// Accounts is only meaningful for instruction records.
type TransactionContext struct {
	TrxHash  string
	Accounts []string
}

// Assemble attaches the transaction context to a decoded record. Instruction
// accounts are taken by position; a missing position becomes an empty string.
func Assemble(record model.Record, ctx TransactionContext) (model.Record, error) {
	acct := func(i int) string {
		if i < len(ctx.Accounts) {
			return ctx.Accounts[i]
		}
		return ""
	}

	switch r := record.(type) {
	case model.MailSendEvent:
		r.TrxHash = ctx.TrxHash
		return r, nil
	case model.MailV2SendEvent:
		r.TrxHash = ctx.TrxHash
		return r, nil
	case model.MailV2UpdateEvent:
		r.TrxHash = ctx.TrxHash
		return r, nil
	case model.MailV2ReadEvent:
		r.TrxHash = ctx.TrxHash
		return r, nil
	case model.MailV2UpdateLabelEvent:
		r.TrxHash = ctx.TrxHash
		return r, nil
	case model.MailAccountV2RegisterEvent:
		r.TrxHash = ctx.TrxHash
		return r, nil
	case model.MailAccountV2UpdateEvent:
		r.TrxHash = ctx.TrxHash
		return r, nil

	case model.CreateMail:
		r.TrxHash = ctx.TrxHash
		r.AcctMail = acct(0)
		r.AcctMailAccountV2 = acct(1)
		r.AcctAuthority = acct(2)
		r.AcctSystemProgram = acct(3)
		return r, nil
	case model.UpdateMail:
		r.TrxHash = ctx.TrxHash
		r.AcctMail = acct(0)
		r.AcctAuthority = acct(1)
		r.AcctSystemProgram = acct(2)
		return r, nil
	case model.UpdateMailReadStatus:
		r.TrxHash = ctx.TrxHash
		r.AcctMail = acct(0)
		r.AcctAuthority = acct(1)
		r.AcctSystemProgram = acct(2)
		return r, nil
	case model.UpdateMailLabel:
		r.TrxHash = ctx.TrxHash
		r.AcctMail = acct(0)
		r.AcctAuthority = acct(1)
		r.AcctSystemProgram = acct(2)
		return r, nil
	case model.RegisterV2:
		r.TrxHash = ctx.TrxHash
		r.AcctMailAccountV2 = acct(0)
		r.AcctAuthority = acct(1)
		r.AcctSystemProgram = acct(2)
		return r, nil
	case model.UpdateAccountV2:
		r.TrxHash = ctx.TrxHash
		r.AcctMailAccountV2 = acct(0)
		r.AcctAuthority = acct(1)
		return r, nil
	case model.SendMail:
		r.TrxHash = ctx.TrxHash
		r.AcctMail = acct(0)
		r.AcctAuthority = acct(1)
		r.AcctSystemProgram = acct(2)
		return r, nil
	case model.Register:
		r.TrxHash = ctx.TrxHash
		r.AcctMailAccount = acct(0)
		r.AcctAuthority = acct(1)
		r.AcctSystemProgram = acct(2)
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported record type: %T", record)
	}
}
