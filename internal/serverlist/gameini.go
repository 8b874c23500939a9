package serverlist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	GameINIFile    = "game.ini"
	WebsiteINIFile = "website.ini"

	configSection = "Config"
)

var ErrNoServerSelected = errors.New("serverlist: no server selected")

// WriteGameFiles points the game client in dataDir at server e.
func WriteGameFiles(dataDir string, e Entry) error {
	if strings.TrimSpace(e.Address) == "" || strings.TrimSpace(e.Port) == "" {
		return ErrNoServerSelected
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("error creating %s: %w", dataDir, err)
	}

	game := ini.Empty(loadOptions)
	if err := writeConfig(game, map[string]string{
		"ServerIP":    e.Address,
		"ServerPort":  e.Port,
		"GroupNum":    "1",
		"Group0":      e.Name,
		"GroupNick0":  e.Name,
		"Area":        "1",
		"PayServerIP": e.ShopURL,
	}); err != nil {
		return err
	}
	if err := saveINI(game, filepath.Join(dataDir, GameINIFile)); err != nil {
		return err
	}

	website := ini.Empty(loadOptions)
	if err := writeConfig(website, map[string]string{"PayServerIP": e.ShopURL}); err != nil {
		return err
	}
	return saveINI(website, filepath.Join(dataDir, WebsiteINIFile))
}

func writeConfig(f *ini.File, values map[string]string) error {
	sec, err := f.NewSection(configSection)
	if err != nil {
		return err
	}
	for k, v := range values {
		if _, err := sec.NewKey(k, v); err != nil {
			return fmt.Errorf("error adding key %s: %w", k, err)
		}
	}
	return nil
}
