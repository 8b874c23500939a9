// Command analyzer prints the login protocol messages found in a packet
// capture. Each direction of every TCP connection to the login server port is
// split into frames the same way the launcher does, and the header of every
// frame is decoded.
//
// Captures can be taken with any tool that writes the classic pcap format,
// for example:
//
//	tcpdump -i any -w login.pcap tcp port 7000
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	portFlag    uint16
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "analyzer [capture.pcap]",
	Short: "Decodes login server traffic from a packet capture",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Println("error opening capture:", err)
			os.Exit(1)
		}
		defer f.Close()

		a := &analyzer{Writer: os.Stdout, Port: portFlag, Verbose: verboseFlag}
		if err := a.Run(f); err != nil {
			fmt.Println("error reading capture:", err)
			os.Exit(1)
		}
	},
}

func main() {
	rootCmd.Flags().Uint16VarP(&portFlag, "port", "p", 7000, "Port the login server listens on")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Dump decoded headers and records in full")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
