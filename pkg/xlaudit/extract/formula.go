package extract

import (
	"regexp"
	"strings"

	"github.com/xuri/efp"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// Function families used for classification. A formula touching several
// families is classified by the first matching family in classification
// order, not by dominant intent.
var (
	dynamicArrayFunctions = newFunctionSet(
		"FILTER", "SORT", "SORTBY", "UNIQUE", "SEQUENCE", "RANDARRAY",
		"XLOOKUP", "XMATCH", "LET", "LAMBDA", "MAP", "REDUCE", "SCAN",
		"MAKEARRAY", "BYROW", "BYCOL", "ISOMITTED", "CHOOSECOLS", "CHOOSEROWS",
		"DROP", "TAKE", "EXPAND", "VSTACK", "HSTACK", "TOROW", "TOCOL",
		"WRAPROWS", "WRAPCOLS", "TEXTSPLIT", "TEXTBEFORE", "TEXTAFTER",
	)

	lookupFunctions = newFunctionSet(
		"VLOOKUP", "HLOOKUP", "LOOKUP", "INDEX", "MATCH", "XLOOKUP", "XMATCH",
		"OFFSET", "INDIRECT", "CHOOSE", "GETPIVOTDATA",
	)

	volatileFunctions = newFunctionSet(
		"NOW", "TODAY", "RAND", "RANDBETWEEN", "INDIRECT", "OFFSET", "INFO",
		"CELL", "RANDARRAY",
	)

	aggregateFunctions = newFunctionSet(
		"SUM", "SUMIF", "SUMIFS", "SUMPRODUCT", "COUNT", "COUNTA", "COUNTIF",
		"COUNTIFS", "COUNTBLANK", "AVERAGE", "AVERAGEIF", "AVERAGEIFS",
		"MIN", "MINIFS", "MAX", "MAXIFS", "AGGREGATE", "SUBTOTAL",
	)

	errorHandlingFunctions = newFunctionSet(
		"IFERROR", "IFNA", "ISERROR", "ISNA", "ISERR", "ERROR.TYPE",
	)

	textFunctions = newFunctionSet(
		"CONCATENATE", "CONCAT", "TEXTJOIN", "LEFT", "RIGHT", "MID", "LEN",
		"FIND", "SEARCH", "SUBSTITUTE", "REPLACE", "TRIM", "CLEAN", "UPPER",
		"LOWER", "PROPER", "TEXT", "VALUE", "FIXED", "DOLLAR", "CHAR", "CODE",
		"REPT", "EXACT", "T", "TEXTSPLIT", "TEXTBEFORE", "TEXTAFTER",
	)

	dateTimeFunctions = newFunctionSet(
		"DATE", "DATEVALUE", "TIME", "TIMEVALUE", "NOW", "TODAY", "YEAR",
		"MONTH", "DAY", "HOUR", "MINUTE", "SECOND", "WEEKDAY", "WEEKNUM",
		"ISOWEEKNUM", "NETWORKDAYS", "WORKDAY", "EDATE", "EOMONTH", "DATEDIF",
	)

	logicalFunctions = newFunctionSet(
		"IF", "IFS", "SWITCH", "AND", "OR", "NOT", "XOR", "TRUE", "FALSE",
		"IFERROR", "IFNA", "ISERROR", "ISNA", "ISBLANK", "ISNUMBER", "ISTEXT",
		"ISLOGICAL", "ISREF", "ISERR", "ISEVEN", "ISODD", "ISFORMULA",
	)

	financialFunctions = newFunctionSet(
		"PMT", "IPMT", "PPMT", "FV", "PV", "NPV", "IRR", "MIRR", "XNPV", "XIRR",
		"RATE", "NPER", "SLN", "SYD", "DB", "DDB", "VDB",
	)

	mathFunctions = newFunctionSet(
		"ABS", "SIGN", "ROUND", "ROUNDUP", "ROUNDDOWN", "CEILING", "FLOOR",
		"INT", "TRUNC", "MOD", "POWER", "SQRT", "EXP", "LN", "LOG", "LOG10",
		"PRODUCT", "QUOTIENT", "RAND", "RANDBETWEEN", "PI", "DEGREES", "RADIANS",
		"SIN", "COS", "TAN", "ASIN", "ACOS", "ATAN", "ATAN2",
	)
)

var (
	xlfnPrefix       = regexp.MustCompile(`(?i)_xlfn\.`)
	xlpmPrefix       = regexp.MustCompile(`(?i)_xlpm\.`)
	anchorArrayCall  = regexp.MustCompile(`ANCHORARRAY\(([^)]+)\)`)
	externalRefExpr  = regexp.MustCompile(`(?i)\[([^\]]+\.xls[xmb]?)\]`)
	functionCallExpr = regexp.MustCompile(`([A-Z][A-Z0-9_.]+)\s*\(`)
)

type functionSet map[string]struct{}

func newFunctionSet(names ...string) functionSet {
	s := make(functionSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s functionSet) containsAny(names map[string]struct{}) bool {
	for n := range names {
		if _, ok := s[n]; ok {
			return true
		}
	}
	return false
}

// CleanFormula strips internal compatibility prefixes from a formula and
// rewrites ANCHORARRAY calls to spill notation (ANCHORARRAY(A1) becomes A1#).
func CleanFormula(formula string) string {
	cleaned := xlfnPrefix.ReplaceAllString(formula, "")
	cleaned = xlpmPrefix.ReplaceAllString(cleaned, "")
	cleaned = anchorArrayCall.ReplaceAllString(cleaned, "$1#")
	return cleaned
}

// ClassifyFormula assigns exactly one category to a cleaned formula based on
// the function names it calls.
func ClassifyFormula(formula string) models.FormulaCategory {
	functions := formulaFunctions(formula)

	if _, ok := functions["LAMBDA"]; ok {
		return models.CategoryLambda
	}
	if dynamicArrayFunctions.containsAny(functions) {
		return models.CategoryDynamicArray
	}
	if strings.HasPrefix(formula, "{=") {
		return models.CategoryArrayLegacy
	}
	if lookupFunctions.containsAny(functions) {
		return models.CategoryLookup
	}
	if volatileFunctions.containsAny(functions) {
		return models.CategoryVolatile
	}
	if aggregateFunctions.containsAny(functions) {
		return models.CategoryAggregate
	}
	if errorHandlingFunctions.containsAny(functions) {
		return models.CategoryErrorHandling
	}
	if textFunctions.containsAny(functions) {
		return models.CategoryText
	}
	if dateTimeFunctions.containsAny(functions) {
		return models.CategoryDateTime
	}
	if logicalFunctions.containsAny(functions) {
		return models.CategoryLogical
	}
	if financialFunctions.containsAny(functions) {
		return models.CategoryFinancial
	}
	if mathFunctions.containsAny(functions) {
		return models.CategoryMath
	}
	if strings.Contains(formula, "[") && strings.Contains(formula, "]") {
		return models.CategoryExternal
	}
	return models.CategorySimple
}

// formulaFunctions returns the set of uppercase function names called in a
// formula. The efp tokenizer handles quoted strings and sheet references;
// a regex scan backs it up for text efp cannot tokenize.
func formulaFunctions(formula string) map[string]struct{} {
	functions := make(map[string]struct{})

	expr := strings.TrimPrefix(formula, "=")
	expr = strings.TrimPrefix(expr, "{=")

	ps := efp.ExcelParser()
	tokens := ps.Parse(expr)
	for _, token := range tokens {
		if token.TType == efp.TokenTypeFunction && token.TSubType == efp.TokenSubTypeStart {
			functions[strings.ToUpper(token.TValue)] = struct{}{}
		}
	}

	if len(functions) == 0 {
		for _, m := range functionCallExpr.FindAllStringSubmatch(strings.ToUpper(formula), -1) {
			functions[m[1]] = struct{}{}
		}
	}

	return functions
}

// ExternalWorkbookRefs returns the distinct external workbook names referenced
// by a formula, e.g. "Budget.xlsx" from "[Budget.xlsx]Sheet1!A1".
func ExternalWorkbookRefs(formula string) []string {
	seen := make(map[string]struct{})
	var refs []string
	for _, m := range externalRefExpr.FindAllStringSubmatch(formula, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		refs = append(refs, m[1])
	}
	return refs
}
