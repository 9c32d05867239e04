package models

// VBAModuleInfo describes a VBA module extracted from the project binary.
type VBAModuleInfo struct {
	// Name is the module name.
	Name string `json:"name"`
	// ModuleType is the module kind (Standard, Class, ThisWorkbook, Sheet).
	ModuleType string `json:"module_type"`
	// Code is the decompressed module source.
	Code string `json:"code"`
	// LineCount is the number of source lines.
	LineCount int `json:"line_count"`
	// Procedures lists the Sub, Function, and Property names defined in the module.
	Procedures []string `json:"procedures,omitempty"`
}

// PowerQueryInfo describes a Power Query definition.
type PowerQueryInfo struct {
	// Name is the query name.
	Name string `json:"name"`
	// Formula is the M expression bound to the query.
	Formula string `json:"formula"`
	// Description is the query description, if any.
	Description string `json:"description,omitempty"`
	// LoadEnabled indicates the query loads to the workbook.
	LoadEnabled bool `json:"load_enabled"`
	// ResultType is the declared result type, if known.
	ResultType string `json:"result_type,omitempty"`
}

// DataConnectionInfo describes an external data connection.
type DataConnectionInfo struct {
	// Name is the connection name.
	Name string `json:"name"`
	// ConnectionType is the connection kind (ODBC, OLEDB, Web Query, ...).
	ConnectionType string `json:"connection_type"`
	// ConnectionString is the connection string, if present.
	ConnectionString string `json:"connection_string,omitempty"`
	// CommandText is the query text sent over the connection, if present.
	CommandText string `json:"command_text,omitempty"`
	// CommandType is the kind of command (SQL, Table, DAX, Cube), if known.
	CommandType string `json:"command_type,omitempty"`
	// Description is the connection description, if any.
	Description string `json:"description,omitempty"`
}
