package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := execute(rootCmd); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs cmd and releases the infrastructure opened by the pre-run
// hook. Cobra skips post-run hooks when RunE fails, so release happens here.
func execute(cmd *cobra.Command) (err error) {
	defer func() {
		err = errors.Join(err, releaseResources())
	}()
	return cmd.Execute()
}

func releaseResources() error {
	var err error
	if infra != nil {
		err = infra.Close()
		infra = nil
	}
	if log != nil {
		_ = log.Sync()
	}
	return err
}
