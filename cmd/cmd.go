package cmd

import (
	"os"

	"github.com/urfave/cli/v2"
)

const (
	ServiceName      = "contact-bridge-service"
	ServiceNamespace = "addrbook"
)

func Run() error {

	app := &cli.App{
		Name:     ServiceName,
		Usage:    "Address-book contact bridge service",
		Flags:    nil, // []cli.Flag{}
		Version:  Version(),
		Commands: commands,
	}

	return app.Run(os.Args)
}

var commands []*cli.Command

func Register(cmds ...*cli.Command) {
	// i := slices.ContainsFunc(
	// 	commands, func(*cli.Command) bool {
	// 		return false
	// 	},
	// )
	commands = append(commands, cmds...)
}
