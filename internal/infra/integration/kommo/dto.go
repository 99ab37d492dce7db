package kommo

type contactsEnvelope struct {
	Embedded struct {
		Contacts []struct {
			ID int `json:"id"`
		} `json:"contacts"`
	} `json:"_embedded"`
}

type leadsEnvelope struct {
	Embedded struct {
		Leads []struct {
			ID int `json:"id"`
		} `json:"leads"`
	} `json:"_embedded"`
}

type customFieldValue struct {
	FieldCode string       `json:"field_code"`
	Values    []fieldValue `json:"values"`
}

type fieldValue struct {
	Value    string `json:"value"`
	EnumCode string `json:"enum_code,omitempty"`
}

type contactPayload struct {
	FirstName          string             `json:"first_name"`
	LastName           string             `json:"last_name"`
	CustomFieldsValues []customFieldValue `json:"custom_fields_values"`
}

type tag struct {
	Name string `json:"name"`
}

type contactRef struct {
	ID int `json:"id"`
}

type leadEmbedded struct {
	Tags     []tag        `json:"tags"`
	Contacts []contactRef `json:"contacts"`
}

type leadPayload struct {
	Name     string       `json:"name"`
	StatusID int          `json:"status_id,omitempty"`
	Embedded leadEmbedded `json:"_embedded"`
}

type notePayload struct {
	EntityID int               `json:"entity_id"`
	NoteType string            `json:"note_type"`
	Params   map[string]string `json:"params"`
}
