package mail

import (
	"reflect"
	"strings"
	"testing"

	"mailscope/internal/model"
)

func TestAssembleInstructionAccounts(t *testing.T) {
	ctx := TransactionContext{TrxHash: "sig", Accounts: []string{"mail", "mailacct", "auth", "sys"}}
	got, err := Assemble(model.CreateMail{Subject: "s"}, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.CreateMail{
		TrxHash: "sig", Subject: "s",
		AcctMail: "mail", AcctMailAccountV2: "mailacct", AcctAuthority: "auth", AcctSystemProgram: "sys",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("record mismatch: %+v != %+v", got, want)
	}
}

func TestAssembleMissingAccounts(t *testing.T) {
	ctx := TransactionContext{TrxHash: "sig", Accounts: []string{"acct"}}
	got, err := Assemble(model.UpdateMailLabel{Label: 2}, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.UpdateMailLabel{TrxHash: "sig", Label: 2, AcctMail: "acct"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("record mismatch: %+v != %+v", got, want)
	}

	got, err = Assemble(model.Register{NostrKey: "n"}, TransactionContext{TrxHash: "sig"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r := got.(model.Register); r.AcctMailAccount != "" || r.AcctAuthority != "" || r.AcctSystemProgram != "" {
		t.Fatalf("expected empty accounts: %+v", r)
	}
}

func TestAssembleEventIgnoresAccounts(t *testing.T) {
	got, err := Assemble(model.MailV2ReadEvent{ID: "m"}, TransactionContext{TrxHash: "sig", Accounts: []string{"x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.MailV2ReadEvent{TrxHash: "sig", ID: "m"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("record mismatch: %+v != %+v", got, want)
	}
}

func TestAssembledAccountsFillColumnsInOrder(t *testing.T) {
	records := []model.Record{
		model.CreateMail{}, model.UpdateMail{}, model.UpdateMailReadStatus{}, model.UpdateMailLabel{},
		model.RegisterV2{}, model.UpdateAccountV2{}, model.SendMail{}, model.Register{},
	}
	accounts := []string{"acct0", "acct1", "acct2", "acct3", "acct4"}

	for _, rec := range records {
		assembled, err := Assemble(rec, TransactionContext{TrxHash: "sig", Accounts: accounts})
		if err != nil {
			t.Fatalf("%s: %v", rec.RecordType(), err)
		}
		row, err := BuildRow(assembled)
		if err != nil {
			t.Fatalf("%s: %v", rec.RecordType(), err)
		}

		next := 0
		for _, col := range row.Columns {
			if !strings.HasPrefix(col.Name, "acct_") {
				continue
			}
			if col.Value != accounts[next] {
				t.Fatalf("%s: column %s = %q, want %q", rec.RecordType(), col.Name, col.Value, accounts[next])
			}
			next++
		}
		if next == 0 {
			t.Fatalf("%s: no account columns", rec.RecordType())
		}
	}
}
