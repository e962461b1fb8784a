package domain

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	dErrors "wasl/pkg/domain-errors"
)

// Typed identifiers. Each wraps a UUID so a batch ID can never be passed
// where a candidate ID is expected.
type (
	CandidateID  uuid.UUID
	BatchID      uuid.UUID
	DocumentID   uuid.UUID
	CampusID     uuid.UUID
	TradeID      uuid.UUID
	OEPID        uuid.UUID
	OperatorID   uuid.UUID
	RemittanceID uuid.UUID
)

func (id CandidateID) String() string  { return uuid.UUID(id).String() }
func (id BatchID) String() string      { return uuid.UUID(id).String() }
func (id DocumentID) String() string   { return uuid.UUID(id).String() }
func (id CampusID) String() string     { return uuid.UUID(id).String() }
func (id TradeID) String() string      { return uuid.UUID(id).String() }
func (id OEPID) String() string        { return uuid.UUID(id).String() }
func (id OperatorID) String() string   { return uuid.UUID(id).String() }
func (id RemittanceID) String() string { return uuid.UUID(id).String() }

func (id CandidateID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id BatchID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id CampusID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id TradeID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id OEPID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id OperatorID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

// Identifiers encode as their canonical string form; a nil id encodes as "".
func (id CandidateID) MarshalText() ([]byte, error)  { return marshalUUID(uuid.UUID(id)) }
func (id BatchID) MarshalText() ([]byte, error)      { return marshalUUID(uuid.UUID(id)) }
func (id DocumentID) MarshalText() ([]byte, error)   { return marshalUUID(uuid.UUID(id)) }
func (id CampusID) MarshalText() ([]byte, error)     { return marshalUUID(uuid.UUID(id)) }
func (id TradeID) MarshalText() ([]byte, error)      { return marshalUUID(uuid.UUID(id)) }
func (id OEPID) MarshalText() ([]byte, error)        { return marshalUUID(uuid.UUID(id)) }
func (id OperatorID) MarshalText() ([]byte, error)   { return marshalUUID(uuid.UUID(id)) }
func (id RemittanceID) MarshalText() ([]byte, error) { return marshalUUID(uuid.UUID(id)) }

func (id *CandidateID) UnmarshalText(b []byte) error { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *BatchID) UnmarshalText(b []byte) error     { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *CampusID) UnmarshalText(b []byte) error    { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *TradeID) UnmarshalText(b []byte) error     { return unmarshalUUID((*uuid.UUID)(id), b) }

func marshalUUID(u uuid.UUID) ([]byte, error) {
	if u == uuid.Nil {
		return []byte{}, nil
	}
	return []byte(u.String()), nil
}

func unmarshalUUID(dst *uuid.UUID, b []byte) error {
	if len(b) == 0 {
		*dst = uuid.Nil
		return nil
	}
	parsed, err := parseUUID("id", string(b))
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}

// maxIDLength bounds input before it reaches uuid.Parse.
const maxIDLength = 64

func parseUUID(kind, s string) (uuid.UUID, error) {
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is too long")
	}
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return parsed, nil
}

func ParseCandidateID(s string) (CandidateID, error) {
	u, err := parseUUID("candidate_id", s)
	return CandidateID(u), err
}

func ParseBatchID(s string) (BatchID, error) {
	u, err := parseUUID("batch_id", s)
	return BatchID(u), err
}

func ParseDocumentID(s string) (DocumentID, error) {
	u, err := parseUUID("document_id", s)
	return DocumentID(u), err
}

func ParseCampusID(s string) (CampusID, error) {
	u, err := parseUUID("campus_id", s)
	return CampusID(u), err
}

func ParseTradeID(s string) (TradeID, error) {
	u, err := parseUUID("trade_id", s)
	return TradeID(u), err
}

func ParseOEPID(s string) (OEPID, error) {
	u, err := parseUUID("oep_id", s)
	return OEPID(u), err
}

func ParseOperatorID(s string) (OperatorID, error) {
	u, err := parseUUID("operator_id", s)
	return OperatorID(u), err
}

// NationalID is a Pakistani CNIC stored as 13 digits without separators.
type NationalID string

const nationalIDLength = 13

// ParseNationalID accepts "3520112345671" or "35201-1234567-1".
func ParseNationalID(s string) (NationalID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "national_id is required")
	}
	if len(s) > 20 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "national_id is too long")
	}
	digits := strings.ReplaceAll(s, "-", "")
	if len(digits) != nationalIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "national_id must have 13 digits")
	}
	for _, r := range digits {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return "", dErrors.New(dErrors.CodeInvalidInput, "national_id must contain only digits")
		}
	}
	return NationalID(digits), nil
}

func (n NationalID) String() string { return string(n) }

// Masked hides all but the last four digits for logs.
func (n NationalID) Masked() string {
	if len(n) < 4 {
		return "****"
	}
	return strings.Repeat("*", len(n)-4) + string(n[len(n)-4:])
}
