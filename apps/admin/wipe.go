package main

import (
	"context"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/elimucd/backend/core/audit"
	"github.com/elimucd/backend/core/notification"
)

var readPasswordFunc = term.ReadPassword // mockable

// wipe clears the notification and audit stores after an explicit
// confirmation typed at the terminal.
func (cli *commandLine) wipe() error {
	fmt.Print("Type YES to clear the notification and audit stores:")
	answer, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return err
	}
	if string(answer) != "YES" {
		return errHelp
	}

	ctx := context.Background()
	if err := cli.kv.Delete(ctx, notification.StorageKey); err != nil {
		return err
	}
	if err := cli.kv.Delete(ctx, audit.StorageKey); err != nil {
		return err
	}
	logger.Println("stores cleared")
	return nil
}
