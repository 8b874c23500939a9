package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dcrodman/mirlauncher/internal/trailer"
)

var showCmd = &cobra.Command{
	Use:   "show [exe]",
	Short: "Prints the configuration embedded in a launcher executable",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := show(args[0]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var pictureOutFlag string

func init() {
	showCmd.Flags().StringVar(&pictureOutFlag, "picture-out", "", "Write the embedded picture to this file")
	rootCmd.AddCommand(showCmd)
}

func show(exe string) error {
	c, err := trailer.Read(exe)
	if errors.Is(err, trailer.ErrNoContainer) {
		fmt.Printf("%s carries no configuration\n", exe)
		return nil
	} else if err != nil {
		return err
	}

	fmt.Println("title:       ", c.Title())
	fmt.Println("download url:", c.DownloadURL())
	fmt.Printf("picture:      %d bytes\n", len(c.Picture))
	fmt.Printf("servers:      %d\n", len(c.Servers))
	for _, s := range c.ServerEntries() {
		fmt.Printf("  [%s] %s %s:%s web=%s info=%s shop=%s\n",
			s.Caption, s.Name, s.Address, s.Port, s.WebURL, s.InfoURL, s.ShopURL)
	}

	if pictureOutFlag != "" {
		if err := os.WriteFile(pictureOutFlag, c.Picture, 0644); err != nil {
			return fmt.Errorf("error writing picture: %w", err)
		}
		fmt.Println("wrote picture to", pictureOutFlag)
	}
	return nil
}
