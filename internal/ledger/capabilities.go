package ledger

// Capabilities records which optional columns a ledger table provides.
// It is computed once per source and passed to every retrieval so that
// missing columns degrade to empty literals instead of query errors.
type Capabilities struct {
	HasName       bool
	HasPhonetic   bool
	HasAddress    bool
	HasMobile     bool
	HasIdentifier bool
}

// CapabilitiesOf derives capabilities from a discovered schema
func CapabilitiesOf(s Schema) Capabilities {
	return Capabilities{
		HasName:       s.Has(ColumnName),
		HasPhonetic:   s.Has(ColumnPhonetic),
		HasAddress:    s.Has(ColumnAddress),
		HasMobile:     s.Has(ColumnMobile),
		HasIdentifier: s.Has(ColumnIdentifier),
	}
}

// Has reports whether a core column is present. Unknown names are assumed present.
func (c Capabilities) Has(column string) bool {
	switch column {
	case ColumnName:
		return c.HasName
	case ColumnPhonetic:
		return c.HasPhonetic
	case ColumnAddress:
		return c.HasAddress
	case ColumnMobile:
		return c.HasMobile
	case ColumnIdentifier:
		return c.HasIdentifier
	}
	return true
}

// Project builds a projection of the named columns, substituting an empty
// literal for each column the table lacks.
func (c Capabilities) Project(columns ...string) []Column {
	out := make([]Column, 0, len(columns))
	for _, name := range columns {
		out = append(out, Column{Name: name, Literal: !c.Has(name)})
	}
	return out
}
