package model

// RecordType names one of the decoded record variants.
type RecordType string

const (
	RecordMailSendEvent              RecordType = "MailSendEvent"
	RecordMailV2SendEvent            RecordType = "MailV2SendEvent"
	RecordMailV2UpdateEvent          RecordType = "MailV2UpdateEvent"
	RecordMailV2ReadEvent            RecordType = "MailV2ReadEvent"
	RecordMailV2UpdateLabelEvent     RecordType = "MailV2UpdateLabelEvent"
	RecordMailAccountV2RegisterEvent RecordType = "MailAccountV2RegisterEvent"
	RecordMailAccountV2UpdateEvent   RecordType = "MailAccountV2UpdateEvent"

	RecordCreateMail           RecordType = "Createmail"
	RecordUpdateMail           RecordType = "Updatemail"
	RecordUpdateMailReadStatus RecordType = "Updatemailreadstatus"
	RecordUpdateMailLabel      RecordType = "Updatemaillabel"
	RecordRegisterV2           RecordType = "RegisterV2"
	RecordUpdateAccountV2      RecordType = "UpdateAccountV2"
	RecordSendMail             RecordType = "Sendmail"
	RecordRegister             RecordType = "Register"
)

// Record is implemented by every decoded event and instruction type.
type Record interface {
	RecordType() RecordType
}

// Source tells where a payload was found inside a transaction.
type Source string

const (
	SourceLog         Source = "log"
	SourceInstruction Source = "instruction"
	SourceCPIEvent    Source = "cpi_event"
)
