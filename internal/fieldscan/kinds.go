// Package fieldscan is the deterministic field-extraction engine. For each
// field kind it applies an ordered rule table against normalized text,
// filters the resulting candidates through plausibility checks, and ranks
// the survivors down to a single value. It is fully offline and total: an
// extraction never fails, a field with no plausible candidate is absent.
package fieldscan

type FieldKind string

const (
	KindName        FieldKind = "name"
	KindEmail       FieldKind = "email"
	KindPhone       FieldKind = "phone"
	KindAddress     FieldKind = "address"
	KindDateOfBirth FieldKind = "date_of_birth"
	KindCompany     FieldKind = "company"
	KindJobTitle    FieldKind = "job_title"
	KindDate        FieldKind = "date"
	KindAmount      FieldKind = "amount"
	KindIDNumber    FieldKind = "id_number"
	KindWebsite     FieldKind = "website"
	KindZipCode     FieldKind = "zip_code"
)

// AllKinds is the fixed, versioned field contract in presentation order.
// Adding a kind requires a rule table entry, a validator case, and a label.
var AllKinds = []FieldKind{
	KindName,
	KindEmail,
	KindPhone,
	KindAddress,
	KindDateOfBirth,
	KindCompany,
	KindJobTitle,
	KindDate,
	KindAmount,
	KindIDNumber,
	KindWebsite,
	KindZipCode,
}

var kindLabels = map[FieldKind]string{
	KindName:        "Name",
	KindEmail:       "Email",
	KindPhone:       "Phone",
	KindAddress:     "Address",
	KindDateOfBirth: "Date of Birth",
	KindCompany:     "Company",
	KindJobTitle:    "Job Title",
	KindDate:        "Date",
	KindAmount:      "Amount",
	KindIDNumber:    "ID Number",
	KindWebsite:     "Website",
	KindZipCode:     "ZIP Code",
}

// Label returns the human-facing form label for a field kind.
func (k FieldKind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return string(k)
}

// FieldMap is one extraction result: field kind to final value. A missing
// key means the field was not found. Every extraction allocates a fresh map;
// results are never reused across runs.
type FieldMap map[FieldKind]string

// Clone returns an independent copy so a stored result cannot alias a
// result still being assembled.
func (m FieldMap) Clone() FieldMap {
	out := make(FieldMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
