package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/storage/database"
)

var (
	errHelp = errors.New("help provided")

	createDBFunc = database.CreateIfNotExist // mockable
)

type commandLine struct {
	db     *sqlx.DB
	conf   *core.Config
	usrSvc *user.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  createdb                              - provision the app user and database")
	fmt.Println("  migrate CMD [ARGS...]                 - run a migration command (up, down, status, ...)")
	fmt.Println("  setrole -chatid CHAT_ID -role ROLE    - set a user's role (student|teacher)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	setRoleCmd := flag.NewFlagSet("setrole", flag.ExitOnError)
	setRoleChatID := setRoleCmd.String("chatid", "", "The user's chat ID.")
	setRoleRole := setRoleCmd.String("role", "", "The new role: student|teacher.")

	switch args[1] {
	case "createdb":
		return createDBFunc(cli.conf)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "setrole":
		if err := setRoleCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setRoleChatID == "" || *setRoleRole == "" {
			setRoleCmd.Usage()
			return errHelp
		}
		return cli.setRole(*setRoleChatID, *setRoleRole)
	default:
		cli.printUsage()
		return errHelp
	}
}
