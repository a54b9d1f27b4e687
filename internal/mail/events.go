package mail

import "mailscope/internal/model"

// Event decoders read the body that follows the 8-byte discriminator and return
// the record plus the number of bytes consumed. Trailing bytes are ignored.

func decodeMailSendEvent(body []byte) (model.Record, int, error) {
	r := newFieldReader(body)
	ev := model.MailSendEvent{}
	ev.From = r.key("from")
	ev.To = r.key("to")
	ev.ID = r.text("id")
	if r.err != nil {
		return nil, 0, r.err
	}
	return ev, r.pos, nil
}

func decodeMailV2SendEvent(body []byte) (model.Record, int, error) {
	r := newFieldReader(body)
	ev := model.MailV2SendEvent{}
	ev.From = r.key("from")
	ev.To = r.key("to")
	ev.ID = r.text("id")
	ev.Mailbox = r.key("mailbox")
	if r.err != nil {
		return nil, 0, r.err
	}
	return ev, r.pos, nil
}

func decodeMailV2UpdateEvent(body []byte) (model.Record, int, error) {
	r := newFieldReader(body)
	ev := model.MailV2UpdateEvent{}
	ev.From = r.key("from")
	ev.To = r.key("to")
	ev.ID = r.text("id")
	ev.Mailbox = r.key("mailbox")
	ev.ParentID = r.text("parent_id")
	ev.MarkAsRead = r.boolean("mark_as_read")
	ev.CreatedAt = r.u32("created_at")
	ev.Subject = r.text("subject")
	ev.Body = r.text("body")
	ev.Authority = r.key("authority")
	ev.IV = r.text("iv")
	ev.Salt = r.text("salt")
	ev.Version = r.text("version")
	if r.err != nil {
		return nil, 0, r.err
	}
	return ev, r.pos, nil
}

func decodeMailV2ReadEvent(body []byte) (model.Record, int, error) {
	r := newFieldReader(body)
	ev := model.MailV2ReadEvent{}
	ev.ID = r.text("id")
	ev.Owner = r.key("owner")
	if r.err != nil {
		return nil, 0, r.err
	}
	return ev, r.pos, nil
}

func decodeMailV2UpdateLabelEvent(body []byte) (model.Record, int, error) {
	r := newFieldReader(body)
	ev := model.MailV2UpdateLabelEvent{}
	ev.ID = r.text("id")
	ev.Owner = r.key("owner")
	if r.err != nil {
		return nil, 0, r.err
	}
	return ev, r.pos, nil
}

func decodeMailAccountV2RegisterEvent(body []byte) (model.Record, int, error) {
	r := newFieldReader(body)
	ev := model.MailAccountV2RegisterEvent{}
	ev.Owner = r.key("owner")
	ev.Account = r.key("account")
	if r.err != nil {
		return nil, 0, r.err
	}
	return ev, r.pos, nil
}

func decodeMailAccountV2UpdateEvent(body []byte) (model.Record, int, error) {
	r := newFieldReader(body)
	ev := model.MailAccountV2UpdateEvent{}
	ev.Owner = r.key("owner")
	ev.Account = r.key("account")
	if r.err != nil {
		return nil, 0, r.err
	}
	return ev, r.pos, nil
}
