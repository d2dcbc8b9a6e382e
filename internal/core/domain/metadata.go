package domain

import (
	"strconv"
	"strings"
)

// MetadataSuffix is appended to a document path to form its sidecar path.
const MetadataSuffix = ".metadata.json"

// ExecutionStatus describes where a document sits in its signing lifecycle.
type ExecutionStatus string

// Execution statuses recognised in sidecar files.
const (
	StatusNotExecuted       ExecutionStatus = "not_executed"
	StatusPartiallyExecuted ExecutionStatus = "partially_executed"
	StatusExecuted          ExecutionStatus = "executed"
	StatusTemplate          ExecutionStatus = "template"
)

// Valid reports whether s is one of the recognised statuses.
func (s ExecutionStatus) Valid() bool {
	switch s {
	case StatusNotExecuted, StatusPartiallyExecuted, StatusExecuted, StatusTemplate:
		return true
	}
	return false
}

// DefaultCategory is assigned when a sidecar omits its category.
const DefaultCategory = "Other"

// Categories is the fixed document taxonomy produced by the external
// classifier. Sidecars may carry other values; they are kept as-is.
var Categories = []string{
	"Corporate Formation",
	"Equity & Investment",
	"Employment & HR",
	"Commercial Agreements",
	"Intellectual Property",
	"Financial & Tax",
	"Compliance & Legal",
	"Templates",
	DefaultCategory,
}

// Signer is one signatory on a document.
type Signer struct {
	Name       string `json:"name"`
	SignedDate *Date  `json:"signed_date,omitempty"`
}

// Party is a named party to an agreement. Role distinguishes the
// counterparty (Investor, Customer, Vendor, ...) from the company itself.
type Party struct {
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
	Title        string `json:"title,omitempty"`
	Address      string `json:"address,omitempty"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role,omitempty"`
}

// ScalarKind tags the dynamic type held by a ScalarValue.
type ScalarKind int

// Scalar kinds for critical-facts values.
const (
	ScalarString ScalarKind = iota
	ScalarNumber
	ScalarBool
)

// ScalarValue is a tagged string/number/bool union used for the
// open-ended critical-facts map. Extraction code must coerce through
// the accessors rather than assume a shape.
type ScalarValue struct {
	Kind ScalarKind
	Str  string
	Num  float64
	Bool bool
}

// StringValue returns a ScalarValue holding s.
func StringValue(s string) ScalarValue { return ScalarValue{Kind: ScalarString, Str: s} }

// NumberValue returns a ScalarValue holding n.
func NumberValue(n float64) ScalarValue { return ScalarValue{Kind: ScalarNumber, Num: n} }

// BoolValue returns a ScalarValue holding b.
func BoolValue(b bool) ScalarValue { return ScalarValue{Kind: ScalarBool, Bool: b} }

// Text renders the value as display text regardless of kind.
func (v ScalarValue) Text() string {
	switch v.Kind {
	case ScalarNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case ScalarBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// CriticalFact is one entry of the ordered critical-facts map.
type CriticalFact struct {
	Key   string
	Value ScalarValue
}

// MetadataRecord is the structured sidecar metadata for one organized
// document. It is created once by the external classifier/extractor and
// is immutable afterwards, except for the e-signature cross-reference
// which the template workflow may update.
type MetadataRecord struct {
	// DocumentPath identifies the document the sidecar describes.
	// It is the sidecar path with MetadataSuffix stripped.
	DocumentPath string `json:"-"`

	Status   ExecutionStatus `json:"status"`
	Category string          `json:"category"`

	Signers           []Signer `json:"signers"`
	FullyExecutedDate *Date    `json:"fully_executed_date,omitempty"`

	DocumentType    string  `json:"document_type,omitempty"`
	Parties         []Party `json:"parties,omitempty"`
	ContractValue   string  `json:"contract_value,omitempty"`
	EffectiveDate   *Date   `json:"effective_date,omitempty"`
	ExpirationDate  *Date   `json:"expiration_date,omitempty"`
	GoverningLaw    string  `json:"governing_law,omitempty"`
	KeyTerms        string  `json:"key_terms,omitempty"`
	Obligations     string  `json:"obligations,omitempty"`
	BusinessContext string  `json:"business_context,omitempty"`

	CriticalFacts []CriticalFact `json:"-"`

	// SignaturePlatformRef cross-references the external e-signature
	// platform envelope, when the document went through it.
	SignaturePlatformRef string `json:"signature_platform_ref,omitempty"`
}

// ApplyDefaults fills the required fields a sidecar may legally omit.
// Reads never fail on missing fields; they default instead.
func (r *MetadataRecord) ApplyDefaults() {
	if !r.Status.Valid() {
		r.Status = StatusNotExecuted
	}
	if strings.TrimSpace(r.Category) == "" {
		r.Category = DefaultCategory
	}
	if r.Signers == nil {
		r.Signers = []Signer{}
	}
}

// FileName returns the base name of the document path.
func (r *MetadataRecord) FileName() string {
	p := r.DocumentPath
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		p = p[i+1:]
	}
	return p
}

// PartyWithRole returns the first party whose role matches role
// (case-insensitive), or nil when no such party exists.
func (r *MetadataRecord) PartyWithRole(role string) *Party {
	for i := range r.Parties {
		if strings.EqualFold(r.Parties[i].Role, role) {
			return &r.Parties[i]
		}
	}
	return nil
}

// FactValue returns the value for key from the critical-facts map.
func (r *MetadataRecord) FactValue(key string) (ScalarValue, bool) {
	for _, f := range r.CriticalFacts {
		if f.Key == key {
			return f.Value, true
		}
	}
	return ScalarValue{}, false
}

// Counterparty resolves the non-company party to the agreement:
// an explicit role-tagged party first, then the first signer whose
// name does not look like the company itself, then "Unknown".
func (r *MetadataRecord) Counterparty(roles ...string) string {
	for _, role := range roles {
		if p := r.PartyWithRole(role); p != nil && p.Name != "" {
			return p.Name
		}
	}
	for _, s := range r.Signers {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		if strings.Contains(strings.ToLower(name), "company") {
			continue
		}
		return name
	}
	return "Unknown"
}

// MoneyAmount parses a currency string leniently: currency symbols and
// commas are stripped and the remainder is parsed as a float. Strings
// that do not parse yield (0, false) rather than an error, so malformed
// values drop out of totals instead of aborting aggregation.
func MoneyAmount(value string) (float64, bool) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0, false
	}
	var b strings.Builder
	for _, r := range cleaned {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ',', r == '$', r == '€', r == '£', r == ' ':
			// stripped
		default:
			// Trailing qualifiers like "USD" end the numeric part.
			if b.Len() > 0 {
				goto parse
			}
		}
	}
parse:
	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatMoney renders an amount the way memory files present currency:
// a dollar sign and thousands separators, cents only when present.
func FormatMoney(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	whole := int64(amount)
	frac := amount - float64(whole)

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if frac > 0.004 {
		cents := int(frac*100 + 0.5)
		b.WriteString(".")
		if cents < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.Itoa(cents))
	}
	return b.String()
}
