package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/trebuchet-org/dao-cli/internal/cli"
	"github.com/trebuchet-org/dao-cli/internal/cli/render"
	"github.com/trebuchet-org/dao-cli/internal/domain"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			fmt.Fprintln(os.Stderr, render.FormatWarning("cancelled"))
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
		os.Exit(1)
	}
}
