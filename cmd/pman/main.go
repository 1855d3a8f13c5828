// Package main provides the pman CLI entry point: a thin urfave/cli/v3
// command tree over the database facade.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/go-pman/pman/cmd/pman/commands"
	"github.com/go-pman/pman/internal/app"
	"github.com/go-pman/pman/internal/config"
)

var pdbfFlag = &cli.StringFlag{
	Name:     "pdbf",
	Aliases:  []string{"f"},
	Required: true,
	Usage:    "path to the .pdbf database file",
}

var jsonFlag = &cli.BoolFlag{
	Name:  "json",
	Value: false,
	Usage: "emit machine-readable JSON instead of text",
}

func main() {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	io := commands.StdIO()

	cmd := &cli.Command{
		Name:    "pman",
		Usage:   "two-layer encrypted password database",
		Version: "1.0.0",
		Commands: []*cli.Command{
			createCommand(container, io),
			groupCommand(container, io),
			userCommand(container, io),
			entityCommand(container, io),
			searchCommand(container, io),
			genpwCommand(io),
			rotateSaltCommand(container, io),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("pman error", slog.Any("error", err))
		os.Exit(1)
	}
}

func createCommand(container *app.Container, io commands.IOTuple) *cli.Command {
	defaultAlgorithm := "aes"
	if container.Config().DefaultEncryptionAlgorithm == 2 {
		defaultAlgorithm = "chacha20"
	}
	return &cli.Command{
		Name:  "create",
		Usage: "create a new database",
		Flags: []cli.Flag{
			pdbfFlag,
			&cli.IntFlag{Name: "history-depth", Value: int64(container.Config().HistoryDepth), Usage: "maximum retained versions per entity"},
			&cli.StringFlag{Name: "encryption-algorithm-1", Value: defaultAlgorithm, Usage: "names region cipher: aes or chacha20"},
			&cli.StringFlag{Name: "encryption-algorithm-2", Value: defaultAlgorithm, Usage: "passwords region cipher: aes or chacha20"},
			&cli.StringFlag{Name: "names-location", Value: "local", Usage: "names region location: local or qs3://bucket/path"},
			&cli.StringFlag{Name: "passwords-location", Value: "local", Usage: "passwords region location: local or qs3://bucket/path"},
			&cli.IntFlag{Name: "argon2-iterations", Value: int64(container.Config().Argon2Iterations), Usage: "Argon2id iteration count"},
			&cli.IntFlag{Name: "argon2-parallelism", Value: int64(container.Config().Argon2Parallelism), Usage: "Argon2id parallelism"},
			&cli.IntFlag{Name: "argon2-memory-mib", Value: int64(container.Config().Argon2MemoryMiB), Usage: "Argon2id memory cost in MiB"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := commands.CreateOptions{
				Path:                 cmd.String("pdbf"),
				HistoryDepth:         uint8(cmd.Int("history-depth")),
				EncryptionAlgorithm1: cmd.String("encryption-algorithm-1"),
				EncryptionAlgorithm2: cmd.String("encryption-algorithm-2"),
				NamesLocation:        cmd.String("names-location"),
				PasswordsLocation:    cmd.String("passwords-location"),
				Argon2Iterations:     uint8(cmd.Int("argon2-iterations")),
				Argon2Parallelism:    uint8(cmd.Int("argon2-parallelism")),
				Argon2MemoryMiB:      uint16(cmd.Int("argon2-memory-mib")),
			}
			return commands.RunCreate(ctx, container, opts, io)
		},
	}
}

func groupCommand(container *app.Container, io commands.IOTuple) *cli.Command {
	return &cli.Command{
		Name:  "group",
		Usage: "manage groups",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "add a group",
				Flags: []cli.Flag{pdbfFlag, &cli.StringFlag{Name: "name", Required: true}},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunGroupAdd(ctx, container, cmd.String("pdbf"), cmd.String("name"), io)
				},
			},
			{
				Name:  "list",
				Usage: "list groups",
				Flags: []cli.Flag{pdbfFlag, jsonFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunGroupList(ctx, container, cmd.String("pdbf"), cmd.Bool("json"), io)
				},
			},
			{
				Name:  "remove",
				Usage: "remove a group",
				Flags: []cli.Flag{pdbfFlag, &cli.IntFlag{Name: "id", Required: true}},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunGroupRemove(ctx, container, cmd.String("pdbf"), uint32(cmd.Int("id")), io)
				},
			},
		},
	}
}

func userCommand(container *app.Container, io commands.IOTuple) *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "manage users",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "add a user",
				Flags: []cli.Flag{pdbfFlag, &cli.StringFlag{Name: "name", Required: true}},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunUserAdd(ctx, container, cmd.String("pdbf"), cmd.String("name"), io)
				},
			},
			{
				Name:  "list",
				Usage: "list users",
				Flags: []cli.Flag{pdbfFlag, jsonFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunUserList(ctx, container, cmd.String("pdbf"), cmd.Bool("json"), io)
				},
			},
			{
				Name:  "remove",
				Usage: "remove a user",
				Flags: []cli.Flag{pdbfFlag, &cli.IntFlag{Name: "id", Required: true}},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunUserRemove(ctx, container, cmd.String("pdbf"), uint32(cmd.Int("id")), io)
				},
			},
		},
	}
}

func entityFieldFlags() []cli.Flag {
	return []cli.Flag{
		pdbfFlag,
		&cli.IntFlag{Name: "group", Required: true},
		&cli.IntFlag{Name: "user", Required: true},
		&cli.StringFlag{Name: "password", Required: true},
		&cli.StringFlag{Name: "url"},
		&cli.StringSliceFlag{Name: "property", Usage: "key=value, repeatable"},
	}
}

func entityFieldsFromCmd(cmd *cli.Command) commands.EntityFields {
	return commands.EntityFields{
		GroupID:    uint32(cmd.Int("group")),
		UserID:     uint32(cmd.Int("user")),
		Password:   cmd.String("password"),
		URL:        cmd.String("url"),
		Properties: cmd.StringSlice("property"),
	}
}

func entityCommand(container *app.Container, io commands.IOTuple) *cli.Command {
	return &cli.Command{
		Name:  "entity",
		Usage: "manage entities",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "add an entity",
				Flags: append(entityFieldFlags(), &cli.StringFlag{Name: "name", Required: true}),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunEntityAdd(ctx, container, cmd.String("pdbf"), cmd.String("name"), entityFieldsFromCmd(cmd), io)
				},
			},
			{
				Name:  "update",
				Usage: "add a new version to an entity",
				Flags: append(entityFieldFlags(), &cli.IntFlag{Name: "id", Required: true}),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunEntityUpdate(ctx, container, cmd.String("pdbf"), uint32(cmd.Int("id")), entityFieldsFromCmd(cmd), io)
				},
			},
			{
				Name:  "list",
				Usage: "list entities in a group",
				Flags: []cli.Flag{pdbfFlag, jsonFlag, &cli.IntFlag{Name: "group", Required: true}},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunEntityList(ctx, container, cmd.String("pdbf"), uint32(cmd.Int("group")), cmd.Bool("json"), io)
				},
			},
			{
				Name:  "remove",
				Usage: "remove an entity",
				Flags: []cli.Flag{pdbfFlag, &cli.IntFlag{Name: "id", Required: true}},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunEntityRemove(ctx, container, cmd.String("pdbf"), uint32(cmd.Int("id")), io)
				},
			},
			{
				Name:  "history",
				Usage: "show every retained password version of an entity",
				Flags: []cli.Flag{pdbfFlag, &cli.IntFlag{Name: "id", Required: true}},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunEntityHistory(ctx, container, cmd.String("pdbf"), uint32(cmd.Int("id")), io)
				},
			},
		},
	}
}

func searchCommand(container *app.Container, io commands.IOTuple) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "find entities whose name, URL, or property key contains a substring",
		ArgsUsage: "<substring>",
		Flags:     []cli.Flag{pdbfFlag, jsonFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return commands.RunSearch(ctx, container, cmd.String("pdbf"), cmd.Args().First(), cmd.Bool("json"), io)
		},
	}
}

func genpwCommand(io commands.IOTuple) *cli.Command {
	return &cli.Command{
		Name:      "genpw",
		Usage:     "expand a \"gen<tables><length>\" rule into a sampled password",
		ArgsUsage: "<rule>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return commands.RunGenPw(cmd.Args().First(), io)
		},
	}
}

func rotateSaltCommand(container *app.Container, io commands.IOTuple) *cli.Command {
	return &cli.Command{
		Name:  "rotate-salt",
		Usage: "force fresh Argon2 salts on the next save",
		Flags: []cli.Flag{pdbfFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return commands.RunRotateSalt(ctx, container, cmd.String("pdbf"), io)
		},
	}
}
