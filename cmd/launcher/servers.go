package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "Lists the servers available to the launcher",
	Run:   ServersCommand,
}

func ServersCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	l := initLauncher(ctx)
	defer l.Close()

	fmt.Println(l.Title())
	selected, _ := l.Selected()
	servers := l.Servers()
	if len(servers) == 0 {
		fmt.Println("no servers configured")
		return
	}
	for _, s := range servers {
		marker := " "
		if s.Caption == selected.Caption {
			marker = "*"
		}
		fmt.Printf("%s %-16s %-16s %s:%s\n", marker, s.Caption, s.Name, s.Address, s.Port)
	}
}
