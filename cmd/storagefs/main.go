package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/SchnorcherSepp/storagefs/logging"
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "storagefs",
		Usage: "Path-addressed storage with a RAM backend, kept in a snapshot file between runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "snapshot",
				Aliases: []string{"s"},
				Usage:   "Snapshot file (overrides snapshot.path of the config)",
				Sources: cli.EnvVars("STORAGEFS_SNAPSHOT"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (overrides log.level of the config)",
			},
			&cli.BoolFlag{
				Name:    "progress",
				Aliases: []string{"p"},
				Usage:   "Print the progress of bulk operations to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List the entries of a directory",
				ArgsUsage: "[path]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "recursive", Aliases: []string{"R"}, Usage: "List all entries below the path"},
					&cli.BoolFlag{Name: "dirs", Aliases: []string{"d"}, Usage: "List only directories"},
				},
				Action: withApp(false, cmdList),
			},
			{
				Name:      "cat",
				Usage:     "Print the content of a file",
				ArgsUsage: "<path>",
				Action:    withApp(false, cmdCat),
			},
			{
				Name:      "put",
				Usage:     "Write a local file (or stdin) to a path",
				ArgsUsage: "<path> [local file | -]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "visibility", Usage: "public or private (default from config)"},
				},
				Action: withApp(true, cmdPut),
			},
			{
				Name:      "mkdir",
				Usage:     "Create a directory and all missing parents",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "visibility", Usage: "public or private (default from config)"},
				},
				Action: withApp(true, cmdMkdir),
			},
			{
				Name:      "rm",
				Usage:     "Delete entries (not recursive)",
				ArgsUsage: "<path>...",
				Action:    withApp(true, cmdRemove),
			},
			{
				Name:      "rmdir",
				Usage:     "Delete a directory and everything below it",
				ArgsUsage: "<path>",
				Action:    withApp(true, cmdRemoveDir),
			},
			{
				Name:      "cp",
				Usage:     "Copy an entry and everything below it",
				ArgsUsage: "<source> <destination>",
				Action:    withApp(true, cmdCopy),
			},
			{
				Name:      "mv",
				Usage:     "Move an entry and everything below it",
				ArgsUsage: "<source> <destination>",
				Action:    withApp(true, cmdMove),
			},
			{
				Name:      "stat",
				Usage:     "Print the metadata of entries",
				ArgsUsage: "<path>...",
				Action:    withApp(false, cmdStat),
			},
			{
				Name:      "url",
				Usage:     "Print the public URL of a path",
				ArgsUsage: "<path>",
				Action:    withApp(false, cmdURL),
			},
			{
				Name:      "chmod",
				Usage:     "Set the visibility of an entry",
				ArgsUsage: "<public|private> <path>",
				Action:    withApp(true, cmdChmod),
			},
			{
				Name:   "demo",
				Usage:  "Create the demo entries (existing files are kept)",
				Action: withApp(true, cmdDemo),
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newCommand().Run(ctx, os.Args)
	stop()
	if err != nil {
		logging.L().Error("application error", zap.Error(err))
		_ = logging.Sync()
		os.Exit(1)
	}
	_ = logging.Sync()
}
