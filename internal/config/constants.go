package config

import "time"

// Application constants
const (
	AppName    = "ANS Expense Consolidation"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable (ETL_LOGGING_LEVEL, ...)
	EnvPrefix = "ETL"
)

// Source defaults (ANS open data portal)
const (
	DefaultSourceBaseURL     = "https://dadosabertos.ans.gov.br/FTP/PDA/demonstracoes_contabeis/"
	DefaultMaxDownloads      = 3
	DefaultListingTimeout    = 10 * time.Second
	DefaultDownloadTimeout   = 5 * time.Minute
	DefaultRequestsPerSecond = 2.0
	DefaultUserAgent         = "ans-expense-etl/" + AppVersion
)

// DefaultSourceYears are scanned newest first
var DefaultSourceYears = []string{"2025", "2024"}

// File layout defaults, relative to the base directory
const (
	DefaultStagingDir = "downloads"
	DefaultOutputCSV  = "consolidado.csv"
	DefaultOutputZip  = "consolidado_despesas.zip"
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "logs/etl.log"
)

// Business filter defaults
const (
	DefaultIdentifierSuffix = "000100"
	DefaultLabelPrefix      = "OPERADORA "
)

// DefaultCategoryKeywords match "events" and "claims" in the regulator's vocabulary
var DefaultCategoryKeywords = []string{"EVENTO", "SINISTRO"}

// Archive and entry conventions
const (
	ArchiveExtension = ".zip"
	TabularExtension = ".csv"
)
