package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Starts the game client against the selected server",
	Run:   PlayCommand,
}

func PlayCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	l := initLauncher(ctx)
	defer l.Close()

	selected, _ := l.Selected()
	if err := l.Play(ctx); err != nil {
		fmt.Println("error starting game:", err)
		return
	}
	fmt.Printf("started game for %s\n", selected.Caption)
}
