package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dcrodman/mirlauncher/internal/serverlist"
	"github.com/dcrodman/mirlauncher/internal/trailer"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Appends a configuration to a launcher executable",
	Long: `Appends a configuration to a launcher executable. Servers are read from an INI file
in the same format as serverlist.ini: one section per server, named by its caption,
with at least ServerAdd and ServerPort set. A copy of the executable is kept as
<exe>.bak unless --no-backup is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := embed(); err != nil {
			fmt.Println("error embedding configuration:", err)
			os.Exit(1)
		}
		fmt.Println("wrote configuration to", embedFlags.exe)
	},
}

var embedFlags struct {
	exe         string
	title       string
	downloadURL string
	picture     string
	servers     string
	noBackup    bool
}

var errNoServers = errors.New("at least one server is required")

func init() {
	embedCmd.Flags().StringVar(&embedFlags.exe, "exe", "", "Launcher executable to modify")
	embedCmd.Flags().StringVar(&embedFlags.title, "title", "", "Window title")
	embedCmd.Flags().StringVar(&embedFlags.downloadURL, "download-url", "", "Address of a server list to download on start-up")
	embedCmd.Flags().StringVar(&embedFlags.picture, "picture", "", "Picture shown by the launcher")
	embedCmd.Flags().StringVar(&embedFlags.servers, "servers", "", "INI file listing the servers")
	embedCmd.Flags().BoolVar(&embedFlags.noBackup, "no-backup", false, "Do not keep a copy of the unmodified executable")
	_ = embedCmd.MarkFlagRequired("exe")
	_ = embedCmd.MarkFlagRequired("picture")
	_ = embedCmd.MarkFlagRequired("servers")

	rootCmd.AddCommand(embedCmd)
}

func embed() error {
	servers, err := loadServers(embedFlags.servers)
	if err != nil {
		return err
	}
	picture, err := os.ReadFile(embedFlags.picture)
	if err != nil {
		return fmt.Errorf("error reading picture: %w", err)
	}

	return trailer.Append(embedFlags.exe, trailer.Options{
		Title:       embedFlags.title,
		DownloadURL: embedFlags.downloadURL,
		Servers:     servers,
		Picture:     picture,
		Backup:      !embedFlags.noBackup,
	})
}

// loadServers reads the servers to embed from a server list file.
func loadServers(path string) ([]trailer.ServerEntry, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("error reading servers: %w", err)
	}
	list, err := serverlist.Load(path)
	if err != nil {
		return nil, err
	}

	var servers []trailer.ServerEntry
	for _, e := range list.Entries(serverlist.Defaults{}) {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		servers = append(servers, trailer.ServerEntry(e))
	}
	if len(servers) == 0 {
		return nil, errNoServers
	}
	return servers, nil
}
