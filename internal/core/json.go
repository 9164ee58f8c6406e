package core

import "encoding/json"

// The MarshalJSON methods below write descriptions back in their input shape,
// with the "type" tag leading each object.

func (f *EnumField) MarshalJSON() ([]byte, error) {
	type plain EnumField
	return json.Marshal(struct {
		Type FieldType `json:"type"`
		*plain
	}{FieldEnum, (*plain)(f)})
}

func (f *IntegerField) MarshalJSON() ([]byte, error) {
	type plain IntegerField
	return json.Marshal(struct {
		Type FieldType `json:"type"`
		*plain
	}{FieldInteger, (*plain)(f)})
}

func (f *NumberField) MarshalJSON() ([]byte, error) {
	type plain NumberField
	return json.Marshal(struct {
		Type FieldType `json:"type"`
		*plain
	}{FieldNumber, (*plain)(f)})
}

func (f *StringField) MarshalJSON() ([]byte, error) {
	type plain StringField
	return json.Marshal(struct {
		Type FieldType `json:"type"`
		*plain
	}{FieldString, (*plain)(f)})
}

func (f *TextField) MarshalJSON() ([]byte, error) {
	type plain TextField
	return json.Marshal(struct {
		Type FieldType `json:"type"`
		*plain
	}{FieldText, (*plain)(f)})
}

func (f *DatetimeField) MarshalJSON() ([]byte, error) {
	type plain DatetimeField
	return json.Marshal(struct {
		Type FieldType `json:"type"`
		*plain
	}{FieldDatetime, (*plain)(f)})
}

func (f *CustomField) MarshalJSON() ([]byte, error) {
	type plain CustomField
	return json.Marshal(struct {
		Type FieldType `json:"type"`
		*plain
	}{FieldCustom, (*plain)(f)})
}

func (*PrimaryIndex) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type IndexType `json:"type"`
	}{IndexPrimary})
}

func (i *UniqueIndex) MarshalJSON() ([]byte, error) {
	type plain UniqueIndex
	return json.Marshal(struct {
		Type IndexType `json:"type"`
		*plain
	}{IndexUnique, (*plain)(i)})
}

func (i *NormalIndex) MarshalJSON() ([]byte, error) {
	type plain NormalIndex
	return json.Marshal(struct {
		Type IndexType `json:"type"`
		*plain
	}{IndexNormal, (*plain)(i)})
}
