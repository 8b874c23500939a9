package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dcrodman/mirlauncher/internal/process"
	"github.com/dcrodman/mirlauncher/internal/serverlist"
)

var ErrGameNotFound = errors.New("launcher: game executable not found")

// FindGameFile returns the first of candidates present in dataDir.
func FindGameFile(dataDir string, candidates []string) (string, error) {
	for _, name := range candidates {
		path := filepath.Join(dataDir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrGameNotFound, dataDir)
}

// Play points the game at the current server, starts it and patches it once
// it has had PatchDelay to unpack. Failing to patch is logged only.
func (l *Launcher) Play(ctx context.Context) error {
	entry, ok := l.Selected()
	if !ok {
		return serverlist.ErrNoServerSelected
	}

	dataDir := l.Config.QualifiedPath(l.Config.DataDir)
	if err := serverlist.WriteGameFiles(dataDir, entry); err != nil {
		return err
	}
	game, err := FindGameFile(dataDir, l.Config.GameFiles)
	if err != nil {
		return err
	}

	proc, err := process.StartSuspended(game, dataDir)
	if err != nil {
		return fmt.Errorf("error starting game: %w", err)
	}
	defer func() {
		if err := proc.Close(); err != nil {
			l.Logger.Warnf("error releasing game process: %v", err)
		}
	}()

	if err := proc.Resume(); err != nil {
		return err
	}
	l.Logger.WithField("pid", proc.PID).Infof("started %s for %s", filepath.Base(game), entry.Caption)

	if !l.Config.Game.PatchEnabled {
		return nil
	}

	timer := time.NewTimer(l.Config.Game.PatchDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if _, err := l.Patcher.Apply(proc.PID); err != nil {
		l.Logger.Warnf("error patching game: %v", err)
	}
	return nil
}
