package entity

import "github.com/shopspring/decimal"

const (
	// UnknownSector is used when the overview carries no sector.
	UnknownSector = "Unknown"
	// NotAvailable is the display value for absent fundamentals.
	NotAvailable = "N/A"
)

// Well-known overview field names.
const (
	FieldName              = "Name"
	FieldSector            = "Sector"
	FieldIndustry          = "Industry"
	FieldRevenueTTM        = "RevenueTTM"
	FieldProfitMargin      = "ProfitMargin"
	FieldOperatingCashflow = "OperatingCashflow"
	FieldCurrency          = "Currency"
)

// CompanyOverview is the flat fundamentals mapping returned for a symbol.
type CompanyOverview struct {
	Symbol string
	Fields map[string]string
}

// IsEmpty reports whether no fields were returned.
func (o CompanyOverview) IsEmpty() bool {
	return len(o.Fields) == 0
}

// Field returns the value of name. Empty strings and the upstream
// placeholders "None" and "-" count as absent.
func (o CompanyOverview) Field(name string) (string, bool) {
	v, ok := o.Fields[name]
	if !ok {
		return "", false
	}
	switch v {
	case "", "None", "-":
		return "", false
	}
	return v, true
}

// FieldOr returns the value of name, or fallback when absent.
func (o CompanyOverview) FieldOr(name, fallback string) string {
	if v, ok := o.Field(name); ok {
		return v
	}
	return fallback
}

// Decimal parses a numeric field.
func (o CompanyOverview) Decimal(name string) (decimal.Decimal, bool) {
	v, ok := o.Field(name)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Sector returns the sector label, defaulting to UnknownSector.
func (o CompanyOverview) Sector() string {
	return o.FieldOr(FieldSector, UnknownSector)
}
