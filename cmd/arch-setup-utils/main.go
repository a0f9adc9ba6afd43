package main

import (
	"context"
	"fmt"
	"os"

	"github.com/archsetup/arch-setup-utils/internal/cmd"
	"github.com/archsetup/arch-setup-utils/internal/contextual"
	"github.com/archsetup/arch-setup-utils/internal/system"
)

func main() {
	host, err := system.Scan()
	if err != nil {
		panic(fmt.Errorf("cannot identify system: %w", err))
	}

	ctx := contextual.WithHost(context.Background(), host)

	if err := cmd.MainCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
