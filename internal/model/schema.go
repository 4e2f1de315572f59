package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldType is the declared type of a schema field.
type FieldType int

const (
	TypeString FieldType = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeTimestamp
	TypeDate
)

func (t FieldType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeTimestamp:
		return "timestamp"
	case TypeDate:
		return "date"
	default:
		return "string"
	}
}

// FieldSpec declares one field of an entity schema.
type FieldSpec struct {
	Name     string
	Type     FieldType
	Nullable bool
}

// Schema is an ordered list of fields.
type Schema []FieldSpec

// Names returns the field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Lookup finds a field by name.
func (s Schema) Lookup(name string) (FieldSpec, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

func str(name string) FieldSpec       { return FieldSpec{Name: name, Type: TypeString} }
func optStr(name string) FieldSpec    { return FieldSpec{Name: name, Type: TypeString, Nullable: true} }
func integer(name string) FieldSpec   { return FieldSpec{Name: name, Type: TypeInt} }
func float(name string) FieldSpec     { return FieldSpec{Name: name, Type: TypeFloat} }
func boolean(name string) FieldSpec   { return FieldSpec{Name: name, Type: TypeBool} }
func timestamp(name string) FieldSpec { return FieldSpec{Name: name, Type: TypeTimestamp} }
func date(name string) FieldSpec      { return FieldSpec{Name: name, Type: TypeDate} }

var schemas = map[EntityKind]Schema{
	KindAccount: {
		str("Id"), str("Name"), str("Type"), str("Industry"),
		integer("AnnualRevenue"), integer("NumberOfEmployees"),
		str("BillingStreet"), str("BillingCity"), str("BillingState"), str("BillingPostalCode"), str("BillingCountry"),
		str("Phone"), str("Website"),
		timestamp("CreatedDate"), timestamp("LastModifiedDate"),
		str("OwnerId"), boolean("IsDeleted"),
	},
	KindOpportunity: {
		str("Id"), str("Name"), str("AccountId"), str("StageName"),
		integer("Amount"), integer("Probability"), date("CloseDate"),
		str("Type"), str("LeadSource"),
		timestamp("CreatedDate"), timestamp("LastModifiedDate"),
		str("OwnerId"), boolean("IsWon"), boolean("IsClosed"),
	},
	KindMarketingEvent: {
		integer("JobID"), integer("ListID"), integer("BatchID"), integer("SubscriberID"),
		str("SubscriberKey"), str("EmailAddress"), timestamp("EventDate"), str("EventType"),
		integer("SendID"), str("Subject"), str("FromName"), str("FromEmail"),
		str("TriggererSendDefinitionObjectID"), boolean("IsUnique"),
		optStr("URL"), optStr("LinkName"), optStr("LinkContent"),
	},
	KindFinancialTransaction: {
		integer("InternalId"), str("TransactionNumber"), str("Type"), str("Status"),
		str("Entity"), integer("EntityId"), date("TranDate"), date("DueDate"),
		float("Amount"), str("Currency"), float("ExchangeRate"),
		str("Subsidiary"), str("Department"), str("Location"),
		timestamp("CreatedDate"), timestamp("LastModifiedDate"),
		str("CreatedBy"), optStr("Memo"),
	},
}

// SchemaFor returns the fixed schema of a kind.
func SchemaFor(k EntityKind) (Schema, error) {
	s, ok := schemas[k]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	return s, nil
}

// Coerce converts a loosely typed value (CSV cell, JSON number, Parquet
// column value) into the Go type declared by f. Empty strings become null
// for nullable fields.
func Coerce(f FieldSpec, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && s == "" && (f.Nullable || f.Type != TypeString) {
		return nil, nil
	}

	switch f.Type {
	case TypeString:
		switch val := v.(type) {
		case string:
			return val, nil
		default:
			return FormatValue(val), nil
		}
	case TypeInt:
		switch val := v.(type) {
		case int64:
			return val, nil
		case int:
			return int64(val), nil
		case int32:
			return int64(val), nil
		case float64:
			return int64(val), nil
		case json.Number:
			return parseInt(val.String())
		case string:
			return parseInt(val)
		}
	case TypeFloat:
		switch val := v.(type) {
		case float64:
			return val, nil
		case float32:
			return float64(val), nil
		case int64:
			return float64(val), nil
		case int:
			return float64(val), nil
		case json.Number:
			return val.Float64()
		case string:
			return strconv.ParseFloat(strings.TrimSpace(val), 64)
		}
	case TypeBool:
		switch val := v.(type) {
		case bool:
			return val, nil
		case string:
			return strconv.ParseBool(strings.TrimSpace(val))
		}
	case TypeTimestamp:
		switch val := v.(type) {
		case time.Time:
			return val.UTC(), nil
		case Date:
			return val.Time, nil
		case string:
			return ParseTimestamp(val)
		}
	case TypeDate:
		switch val := v.(type) {
		case Date:
			return val, nil
		case time.Time:
			return NewDate(val), nil
		case string:
			t, err := ParseTimestamp(val)
			if err != nil {
				return nil, err
			}
			return NewDate(t), nil
		}
	}
	return nil, fmt.Errorf("cannot use %T as %s", v, f.Type)
}

// parseInt accepts integral text, including the "123.0" form some writers
// emit for integer columns that contained nulls.
func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
