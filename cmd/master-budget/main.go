package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/finopskit/master-budget/internal/budget"
	"github.com/finopskit/master-budget/internal/config"
	"github.com/finopskit/master-budget/internal/server"
	"github.com/finopskit/master-budget/pkg/constants"
	"github.com/finopskit/master-budget/pkg/format"
	"github.com/finopskit/master-budget/pkg/loader"
	"github.com/finopskit/master-budget/pkg/output"
	"github.com/finopskit/master-budget/pkg/table"
	"github.com/finopskit/master-budget/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time via -ldflags.
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	logFormat := loggingConfig.Format
	if logFormat == "" {
		logFormat = "json" // Default to JSON for production
	}

	// Configure encoder
	var zapConfig zap.Config
	switch logFormat {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", logFormat)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

// loadInputs reads every configured table file and decodes it into input rows.
func loadInputs(paths config.InputsConfig) (budget.Inputs, []budget.StatementRow, error) {
	var inputs budget.Inputs
	var statement []budget.StatementRow

	tables := []struct {
		path   string
		decode func(*table.Raw) error
	}{
		{paths.CVP, func(raw *table.Raw) (err error) { inputs.CVP, err = budget.DecodeCVP(raw); return }},
		{paths.Forecast, func(raw *table.Raw) (err error) { inputs.Forecast, err = budget.DecodeForecast(raw); return }},
		{paths.Inventory, func(raw *table.Raw) (err error) { inputs.Inventory, err = budget.DecodeInventory(raw); return }},
		{paths.BOM, func(raw *table.Raw) (err error) { inputs.BOM, err = budget.DecodeBOM(raw); return }},
		{paths.Rates, func(raw *table.Raw) (err error) { inputs.Rates, err = budget.DecodeRates(raw); return }},
		{paths.Expenses, func(raw *table.Raw) (err error) { inputs.Expenses, err = budget.DecodeExpenses(raw); return }},
		{paths.Statement, func(raw *table.Raw) (err error) { statement, err = budget.DecodeStatement(raw); return }},
	}

	for _, tbl := range tables {
		if tbl.path == "" {
			continue
		}
		raw, err := loader.ReadFile(tbl.path)
		if err != nil {
			return inputs, nil, err
		}
		if err := tbl.decode(raw); err != nil {
			return inputs, nil, fmt.Errorf("%s: %w", tbl.path, err)
		}
	}

	return inputs, statement, nil
}

func serve(address, serverConfigPath, logLevelOverride string) {
	srvConfig, err := server.LoadConfig(serverConfigPath)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration\", \"error\": \"%v\"}\n", err)
		return
	}

	logger, err := initializeLogger(srvConfig.Logging, logLevelOverride)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	if address == "" {
		address = srvConfig.Address
	}

	handler := server.NewHandler(logger, srvConfig.UploadSizeBytes(), srvConfig.SessionIdleTTL(), version)

	logger.Info("starting HTTP server",
		zap.String("op", "main"),
		zap.String("address", address),
		zap.String("version", version),
	)
	if err := http.ListenAndServe(address, handler); err != nil {
		logger.Fatal("HTTP server stopped",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func main() {
	// Load environment variables
	_ = godotenv.Load()

	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	serveFlag := flag.Bool("serve", false, "start the HTTP server instead of a one-off run")
	addressFlag := flag.String("address", "", "HTTP listen address override")
	serverConfigFlag := flag.String("server-config", "", "path to server configuration file")
	flag.Parse()

	if *serveFlag {
		serve(*addressFlag, *serverConfigFlag, *logLevel)
		return
	}

	// Load the config file to get policy, input paths, and logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty // Default to pretty format
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings, err := conf.Validate()
	if err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Read and decode the configured input tables.
	inputs, statement, err := loadInputs(conf.Inputs)
	if err != nil {
		logger.Fatal("failed to load input tables",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// A statement runs the one-shot cash budget; everything else runs the
	// full chain. Mixing the two would double-count the forecast.
	var results *budget.Results
	if len(statement) > 0 {
		if len(inputs.Forecast) > 0 {
			logger.Fatal("statement input cannot be combined with a sales forecast",
				zap.String("op", "main"),
			)
		}
		results, err = budget.RunStatement(logger, conf.Policy, statement)
	} else {
		results, err = budget.Run(logger, conf.Policy, inputs)
	}
	if err != nil {
		logger.Fatal("failed to compute budget",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	for _, warning := range results.Warnings {
		logger.Warn("Budget warning: "+warning,
			zap.String("op", "main"),
		)
	}
	if results.Cash != nil && len(results.Cash.Closing) > 0 {
		last := len(results.Cash.Closing) - 1
		logger.Info("cash budget computed",
			zap.String("op", "main"),
			zap.Int("months", len(results.Cash.Months)),
			zap.String("closingBalance", format.Currency(results.Cash.Closing[last])),
		)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(results)
	case constants.OutputFormatCSV:
		output.CsvFormat(results)
	}

}
