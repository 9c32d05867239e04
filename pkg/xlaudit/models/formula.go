package models

// FormulaInfo describes a single formula cell.
type FormulaInfo struct {
	// Location is the cell containing the formula.
	Location CellReference `json:"location"`
	// Formula is the raw formula text as stored in the file.
	Formula string `json:"formula"`
	// FormulaClean is the formula with internal compatibility prefixes stripped.
	FormulaClean string `json:"formula_clean"`
	// Category is the classification of the formula.
	Category FormulaCategory `json:"category"`
	// ResultValue is the cached calculated value, if any.
	ResultValue string `json:"result_value,omitempty"`
	// IsArrayFormula indicates a legacy CSE array formula.
	IsArrayFormula bool `json:"is_array_formula,omitempty"`
	// SpillRange is the spill range of a dynamic array formula, if known.
	SpillRange string `json:"spill_range,omitempty"`
	// ReferencesExternal indicates the formula references another workbook.
	ReferencesExternal bool `json:"references_external,omitempty"`
	// ExternalRefs lists the referenced external workbook names.
	ExternalRefs []string `json:"external_refs,omitempty"`
}

// NamedRangeInfo describes a defined name, including LAMBDA function definitions.
type NamedRangeInfo struct {
	// Name is the defined name.
	Name string `json:"name"`
	// Value is the bound formula or range reference.
	Value string `json:"value"`
	// Scope is the sheet name for sheet-local names, empty for workbook scope.
	Scope string `json:"scope,omitempty"`
	// IsLambda indicates the value is a LAMBDA function definition.
	IsLambda bool `json:"is_lambda,omitempty"`
	// Comment is the user comment attached to the name, if any.
	Comment string `json:"comment,omitempty"`
	// Hidden indicates the name is hidden from the name manager UI.
	Hidden bool `json:"hidden,omitempty"`
}
