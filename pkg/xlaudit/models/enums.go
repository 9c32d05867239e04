// Package models defines data structures for workbook analysis results.
package models

// SheetVisibility represents the visibility state of a worksheet.
type SheetVisibility string

const (
	// VisibilityVisible is a normally visible sheet.
	VisibilityVisible SheetVisibility = "visible"
	// VisibilityHidden is a sheet hidden through the standard UI.
	VisibilityHidden SheetVisibility = "hidden"
	// VisibilityVeryHidden is a sheet that can only be unhidden via macro.
	VisibilityVeryHidden SheetVisibility = "very_hidden"
)

// FormulaCategory classifies a formula by its dominant function family.
type FormulaCategory string

const (
	// CategorySimple is a formula with no recognized function family.
	CategorySimple FormulaCategory = "simple"
	// CategoryLookup uses lookup functions such as VLOOKUP or XLOOKUP.
	CategoryLookup FormulaCategory = "lookup"
	// CategoryDynamicArray uses spilling functions such as FILTER or SORT.
	CategoryDynamicArray FormulaCategory = "dynamic_array"
	// CategoryLambda defines or invokes a LAMBDA function.
	CategoryLambda FormulaCategory = "lambda"
	// CategoryAggregate uses aggregation functions such as SUM or COUNTIFS.
	CategoryAggregate FormulaCategory = "aggregate"
	// CategoryVolatile uses functions recalculated on every change, such as NOW.
	CategoryVolatile FormulaCategory = "volatile"
	// CategoryArrayLegacy is a legacy CSE array formula.
	CategoryArrayLegacy FormulaCategory = "array_legacy"
	// CategoryText uses text functions such as CONCAT or TEXTJOIN.
	CategoryText FormulaCategory = "text"
	// CategoryDateTime uses date and time functions such as DATE or EDATE.
	CategoryDateTime FormulaCategory = "date_time"
	// CategoryLogical uses logical functions such as IF or SWITCH.
	CategoryLogical FormulaCategory = "logical"
	// CategoryFinancial uses financial functions such as NPV or PMT.
	CategoryFinancial FormulaCategory = "financial"
	// CategoryMath uses math functions such as ROUND or MOD.
	CategoryMath FormulaCategory = "math"
	// CategoryStatistical uses statistical functions such as MEDIAN or STDEV.
	CategoryStatistical FormulaCategory = "statistical"
	// CategoryErrorHandling uses error handling functions such as IFERROR.
	CategoryErrorHandling FormulaCategory = "error_handling"
	// CategoryExternal references another workbook but no recognized function family.
	CategoryExternal FormulaCategory = "external"
)

// ErrorType represents an Excel error value.
type ErrorType string

const (
	ErrorRef         ErrorType = "#REF!"
	ErrorName        ErrorType = "#NAME?"
	ErrorValue       ErrorType = "#VALUE!"
	ErrorDiv         ErrorType = "#DIV/0!"
	ErrorNull        ErrorType = "#NULL!"
	ErrorNum         ErrorType = "#NUM!"
	ErrorNA          ErrorType = "#N/A"
	ErrorCalc        ErrorType = "#CALC!"
	ErrorSpill       ErrorType = "#SPILL!"
	ErrorGettingData ErrorType = "#GETTING_DATA"
)

// CFRuleType represents the kind of a conditional formatting rule.
type CFRuleType string

const (
	CFColorScale    CFRuleType = "color_scale"
	CFDataBar       CFRuleType = "data_bar"
	CFIconSet       CFRuleType = "icon_set"
	CFCellIs        CFRuleType = "cell_is"
	CFFormula       CFRuleType = "formula"
	CFTopBottom     CFRuleType = "top_bottom"
	CFAboveAverage  CFRuleType = "above_average"
	CFDuplicate     CFRuleType = "duplicate"
	CFUnique        CFRuleType = "unique"
	CFTextContains  CFRuleType = "text_contains"
	CFDateOccurring CFRuleType = "date_occurring"
	CFBlank         CFRuleType = "blank"
	CFNotBlank      CFRuleType = "not_blank"
	CFError         CFRuleType = "error"
	CFNotError      CFRuleType = "not_error"
)
