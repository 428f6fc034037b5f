package schema

// Custom string types for type safety.
type (
	// ValueType is the storage type of a metric column. The set is kept
	// small so that any columnar reader can map it onto native types.
	ValueType string

	// Aggregation is the rule used to roll per-file values up to
	// directory and project level.
	Aggregation string

	// Trend indicates which direction of a metric is desirable.
	Trend string

	// PathType classifies what a row's path refers to.
	PathType string

	// CatalogBackend represents the database backend for the revision catalog.
	CatalogBackend string

	// OutputMode represents the format of console output.
	OutputMode string
)

// All metric value types supported.
const (
	IntType   ValueType = "int"
	FloatType ValueType = "float"
	StrType   ValueType = "str"
	BoolType  ValueType = "bool"
)

// All aggregation rules supported.
const (
	SumAgg     Aggregation = "sum"
	AverageAgg Aggregation = "average"
	WorstAgg   Aggregation = "worst"
	NoneAgg    Aggregation = "none"
)

// All metric trends supported.
const (
	AimLow        Trend = "aim_low"  // Low is good, high is bad
	AimHigh       Trend = "aim_high" // High is good, low is bad
	Informational Trend = "info"     // Neither direction matters
)

// All path types supported.
const (
	RootPath      PathType = "root"
	DirectoryPath PathType = "directory"
	FilePath      PathType = "file"
)

// All catalog backends supported.
const (
	SQLiteBackend     CatalogBackend = "sqlite" // default
	MySQLBackend      CatalogBackend = "mysql"
	PostgreSQLBackend CatalogBackend = "postgresql"
	NoneBackend       CatalogBackend = "none"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidCatalogBackends lists all valid catalog backends.
var ValidCatalogBackends = map[CatalogBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
