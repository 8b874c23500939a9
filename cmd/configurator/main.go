// Command configurator embeds a launcher configuration (title, server list
// location, servers and a picture) into a copy of the launcher executable,
// and shows what an executable already carries.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "configurator",
	Short: "Writes and inspects the configuration embedded in launcher executables",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
