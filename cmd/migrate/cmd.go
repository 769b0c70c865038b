package migrate

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/mitchellh/cli"
	"github.com/satori/uuid"
	"github.com/yusufsyaifudin/ylog"

	"github.com/joaop06/jcoder/assets/migrations/pgsql"
	"github.com/joaop06/jcoder/container"
	"github.com/joaop06/jcoder/pkg/migration"
	"github.com/joaop06/jcoder/pkg/tracer"
)

const (
	ExitSuccess = 0
	ExitErr     = -1

	migrationTable = "migration_records"
)

type Cmd struct {
	flags *flag.FlagSet
}

func NewCmd() func() (cli.Command, error) {
	return func() (cli.Command, error) {
		cmd := &Cmd{
			flags: flag.NewFlagSet("", flag.ContinueOnError),
		}
		return cmd, nil
	}
}

var _ cli.Command = (*Cmd)(nil)

func (c *Cmd) Help() string {
	return strings.TrimSpace(`
Usage: jcoder migrate [up|down]

  Runs the schema migrations of the application database label
  configured under services.application.dbLabel.
`)
}

func (c *Cmd) Run(args []string) int {
	err := c.flags.Parse(args)
	if err != nil {
		log.Printf("error parsing argument: %s", err)
		return ExitErr
	}

	direction := "up"
	if rest := c.flags.Args(); len(rest) > 0 {
		direction = strings.ToLower(strings.TrimSpace(rest[0]))
	}

	traceLog, err := ylog.NewTracer(tracer.LogData{
		RemoteAddr: "system",
		TraceID:    uuid.NewV4().String(),
	}, ylog.WithTag("tracer"))
	if err != nil {
		log.Printf("error prepare log tracer: %s", err)
		return ExitErr
	}

	ctx := ylog.Inject(context.Background(), traceLog)

	cfg, err := container.LoadConfig()
	if err != nil {
		log.Printf("error load config: %s", err)
		return ExitErr
	}

	repos, err := container.SetupRepositories(cfg.DatabaseResources)
	if err != nil {
		log.Printf("error setup repositories: %s", err)
		return ExitErr
	}

	defer func() {
		if _err := repos.Close(); _err != nil {
			log.Printf("error close db: %s", _err)
		}
	}()

	sqlConn, err := repos.SqlxConn(cfg.Services.Application.DBLabel)
	if err != nil {
		log.Printf("error get sql connection: %s", err)
		return ExitErr
	}

	migrations := []migration.Migrate{
		pgsql.CreateUsersTable1689200101{},
		pgsql.CreateApplicationsTable1689200177{},
		pgsql.CreateComponentTables1689200243{},
	}

	immigration, err := migration.NewSQLImmigration(ctx, migration.SQLImmigrationConfig{
		Dialect:        "postgres",
		DB:             sqlConn.DB,
		MigrationTable: migrationTable,
		Migrations:     migrations,
	})
	if err != nil {
		log.Printf("error prepare migration: %s", err)
		return ExitErr
	}

	switch direction {
	case "up":
		err = immigration.Up()
	case "down":
		err = immigration.Down()
	default:
		err = fmt.Errorf("unknown migration direction '%s', want up or down", direction)
	}

	if err != nil {
		log.Printf("migration %s error: %s", direction, err)
		return ExitErr
	}

	fmt.Printf("migration %s done\n", direction)
	return ExitSuccess
}

func (c *Cmd) Synopsis() string {
	return `Run database schema migrations`
}
