package main

import (
	"fmt"
	"os"

	"github.com/KOMKZ/go-yogan-dibench/application"
	"github.com/KOMKZ/go-yogan-dibench/errcode"
)

func main() {
	configPath := os.Getenv("DIBENCH_CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/dibench"
	}

	app, err := application.NewBench(configPath, "DIBENCH")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errcode.ExitCode(err))
	}

	if err := app.Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errcode.ExitCode(err))
	}
}
