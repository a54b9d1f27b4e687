package mail

import "mailscope/internal/model"

func decodeCreateMail(body []byte) (model.Record, int, error) {
	r := newFieldReader(body)
	ix := model.CreateMail{}
	ix.Subject = r.text("subject")
	ix.From = r.key("from")
	ix.To = r.key("to")
	ix.Salt = r.text("salt")
	ix.IV = r.text("iv")
	ix.Version = r.text("version")
	ix.ParentID = r.text("parent_id")
	if r.err != nil {
		return nil, 0, r.err
	}
	return ix, r.pos, nil
}

func decodeUpdateMail(body []byte) (model.Record, int, error) {
	r := newFieldReader(body)
	ix := model.UpdateMail{}
	ix.Body = r.text("body")
	if r.err != nil {
		return nil, 0, r.err
	}
	return ix, r.pos, nil
}

func decodeUpdateMailReadStatus(_ []byte) (model.Record, int, error) {
	return model.UpdateMailReadStatus{}, 0, nil
}

func decodeUpdateMailLabel(body []byte) (model.Record, int, error) {
	r := newFieldReader(body)
	ix := model.UpdateMailLabel{}
	ix.Label = r.u32("label")
	if r.err != nil {
		return nil, 0, r.err
	}
	return ix, r.pos, nil
}

func decodeRegisterV2(body []byte) (model.Record, int, error) {
	r := newFieldReader(body)
	ix := model.RegisterV2{}
	ix.NostrKey = r.text("nostr_key")
	if r.err != nil {
		return nil, 0, r.err
	}
	return ix, r.pos, nil
}

func decodeUpdateAccountV2(body []byte) (model.Record, int, error) {
	r := newFieldReader(body)
	ix := model.UpdateAccountV2{}
	ix.NostrKey = r.text("nostr_key")
	ix.Mailbox = r.key("mailbox")
	if r.err != nil {
		return nil, 0, r.err
	}
	return ix, r.pos, nil
}

func decodeSendMail(body []byte) (model.Record, int, error) {
	r := newFieldReader(body)
	ix := model.SendMail{}
	ix.Subject = r.text("subject")
	ix.Body = r.text("body")
	ix.From = r.key("from")
	ix.To = r.key("to")
	ix.Salt = r.text("salt")
	ix.IV = r.text("iv")
	ix.Version = r.text("version")
	if r.err != nil {
		return nil, 0, r.err
	}
	return ix, r.pos, nil
}

func decodeRegister(body []byte) (model.Record, int, error) {
	r := newFieldReader(body)
	ix := model.Register{}
	ix.NostrKey = r.text("nostr_key")
	if r.err != nil {
		return nil, 0, r.err
	}
	return ix, r.pos, nil
}
