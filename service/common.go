package service

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"postadmin/app/config"
	"postadmin/app/logging"
	"postadmin/app/repositories"
	"postadmin/app/services"
)

// stdout is where command output goes; swapped in tests.
var stdout io.Writer = os.Stdout

// globalFlags are accepted by every subcommand.
type globalFlags struct {
	configPath string
	env        string
}

func newFlagSet(name string) (*flag.FlagSet, *globalFlags) {
	gf := &globalFlags{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.StringVar(&gf.configPath, "config", "", "path for the TOML config file (defaults are used when empty)")
	fs.StringVar(&gf.env, "env", "development", "environment [dev | development | prod | production]")
	return fs, gf
}

func (gf *globalFlags) load() (*config.Config, error) {
	if gf.configPath == "" {
		// the built-in defaults are development settings only
		switch strings.ToLower(gf.env) {
		case "dev", "development":
			return config.Default(), nil
		}
		return nil, fmt.Errorf("--env %s requires --config", gf.env)
	}
	return config.Load(gf.env, gf.configPath)
}

func setupLogging(cfg *config.Config) {
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
	})
}

// openPostService opens the configured store. The returned close func
// must be called once the caller is done.
func openPostService(cfg *config.Config) (*services.PostService, func() error, error) {
	db, err := repositories.OpenDB(cfg.DBPath, cfg.InMemory)
	if err != nil {
		return nil, nil, err
	}
	return services.NewPostService(repositories.NewBadgerPostRepository(db.DB)), db.Close, nil
}

func fail(format string, args ...interface{}) int {
	fmt.Fprintf(stdout, "Error: "+format+"\n", args...)
	return 1
}

// SetOutput redirects command output.
func SetOutput(w io.Writer) {
	stdout = w
}
