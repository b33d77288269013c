package main

import (
	"context"
	"fmt"

	"github.com/trezcool/darasa/core/user"
)

// setRole promotes or demotes the user identified by their chat ID.
func (cli *commandLine) setRole(chatID, role string) error {
	ctx := context.Background()

	data := user.UpdateRole{Role: role}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := cli.usrSvc.GetByChatID(ctx, chatID)
	if err != nil {
		return err
	}
	usr, err = cli.usrSvc.SetRole(ctx, usr.ID, data)
	if err != nil {
		return err
	}
	fmt.Printf("%s is now a %s\n", usr.FullName(), usr.Role)
	return nil
}
