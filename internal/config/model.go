package config

type DBDriver string

const (
	DBDriverPostgres DBDriver = "postgres"
	DBDriverMSSQL    DBDriver = "mssql"
	DBDriverMySQL    DBDriver = "mysql"
	DBDriverSQLite   DBDriver = "sqlite"
)

const (
	DefaultHost       = "localhost"
	DefaultQueryFile  = "query.sql"
	DefaultOutputFile = "Oferta_Relampago.xlsx"
	DefaultSheetName  = "Oferta Relâmpago"
)

type DBConfig struct {
	Driver   DBDriver `yaml:"driver"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	User     string   `yaml:"user"`
	Database string   `yaml:"database"`
	SSLMode  string   `yaml:"sslmode,omitempty"`

	// PasswordFromKeyring makes an empty DB_PASSWORD fall back to the OS keyring.
	PasswordFromKeyring bool `yaml:"passwordFromKeyring"`

	// Password never touches the config file.
	Password string `yaml:"-"`
}

type ExportConfig struct {
	QueryFile    string `yaml:"queryFile"`
	OutputFile   string `yaml:"outputFile"`
	SheetName    string `yaml:"sheetName"`
	MetadataFile string `yaml:"metadataFile,omitempty"`
}

type Config struct {
	Debug  bool         `yaml:"debug"`
	DB     DBConfig     `yaml:"db"`
	Export ExportConfig `yaml:"export"`
}

// DefaultPort is the standard listening port for the driver's server, or 0
// for file-backed drivers.
func DefaultPort(d DBDriver) int {
	switch d {
	case DBDriverPostgres:
		return 5432
	case DBDriverMSSQL:
		return 1433
	case DBDriverMySQL:
		return 3306
	default:
		return 0
	}
}

func Default() Config {
	return Config{
		DB: DBConfig{
			Driver: DBDriverPostgres,
			Host:   DefaultHost,
			Port:   DefaultPort(DBDriverPostgres),
		},
		Export: ExportConfig{
			QueryFile:  DefaultQueryFile,
			OutputFile: DefaultOutputFile,
			SheetName:  DefaultSheetName,
		},
	}
}
