// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// Flag values live on the flag itself, so shared flags are built per command.

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func prettyFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "pretty",
		Usage: "Pretty-print output",
		Value: true,
	}
}

func fromFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "from",
		Usage: "Source list (favorite, reading, completed, trash); found automatically when omitted",
	}
}

func addFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "add",
			Usage: "Add a recommendation to this list",
		},
		&cli.IntFlag{
			Name:  "pick",
			Usage: "Which recommendation to add (1-based)",
			Value: 1,
		},
		jsonFlag(),
		prettyFlag(),
	}
}

// setupCommand handles setup operations for configuration and the session database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config file populated with defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Where to write the configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in and remember the session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Sources: cli.EnvVars("COMIX_PASSWORD")},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Display name", Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Sources: cli.EnvVars("COMIX_PASSWORD")},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "End the session and forget the stored token",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the stored session",
				Action: r.AuthStatus,
			},
			{
				Name:  "forgot",
				Usage: "Request a password reset email",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
				},
				Action: r.AuthForgot,
			},
		},
	}
}

// libraryCommand handles the four library lists
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Manage your favorites, in-progress, completed and trashed comics",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "Show library lists",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "status",
						Aliases: []string{"s"},
						Usage:   "Only show one list",
					},
					jsonFlag(),
					prettyFlag(),
				},
				Action: r.LibraryList,
			},
			{
				Name:  "add",
				Usage: "Add a comic to a list",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Destination list", Value: "favorite"},
					&cli.StringFlag{Name: "id", Usage: "Library comic id, if known"},
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Comic title", Required: true},
					&cli.StringFlag{Name: "author", Aliases: []string{"a"}, Usage: "Comic author"},
					&cli.StringFlag{Name: "genre", Usage: "Comic genre"},
					&cli.IntFlag{Name: "year", Usage: "Publication year"},
					&cli.StringFlag{Name: "cover", Usage: "Cover image URL"},
				},
				Action: r.LibraryAdd,
			},
			{
				Name:  "move",
				Usage: "Move a comic between lists",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					fromFlag(),
					&cli.StringFlag{Name: "to", Usage: "Destination list", Required: true},
				},
				Action: r.LibraryMove,
			},
			{
				Name:  "trash",
				Usage: "Move a comic to the trash",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{fromFlag()},
				Action: r.LibraryTrash,
			},
			{
				Name:  "restore",
				Usage: "Restore a trashed comic to favorites",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.LibraryRestore,
			},
			{
				Name:  "delete",
				Usage: "Permanently delete a trashed comic",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.LibraryDelete,
			},
			{
				Name:  "search",
				Usage: "Search the trash by title, author or genre",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  []cli.Flag{jsonFlag(), prettyFlag()},
				Action: r.LibrarySearch,
			},
			{
				Name:  "export",
				Usage: "Export the library to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (csv, markdown, text, json)",
						Value:   "markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path; use - for stdout",
					},
					&cli.StringSliceFlag{
						Name:    "status",
						Aliases: []string{"s"},
						Usage:   "Only export these lists",
					},
				},
				Action: r.LibraryExport,
			},
		},
	}
}

// recommendCommand handles recommendation operations
func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recommend",
		Aliases: []string{"rec"},
		Usage:   "Discover comics",
		Commands: []*cli.Command{
			{
				Name:  "chat",
				Usage: "Describe what you want to read",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "prompt"},
				},
				Flags:  addFlags(),
				Action: r.RecommendChat,
			},
			{
				Name:   "popular",
				Usage:  "Show popular comics",
				Flags:  addFlags(),
				Action: r.RecommendPopular,
			},
			{
				Name:   "personalized",
				Usage:  "Show picks based on your library",
				Flags:  addFlags(),
				Action: r.RecommendPersonalized,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive library management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive library board",
		Action:  r.TUI,
	}
}
