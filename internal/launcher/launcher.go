// Package launcher holds the state of a running launcher: the embedded
// configuration, the server list, the selected server and the connection to
// its login server. The account requests and game start-up built on top of it
// live alongside.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/dcrodman/mirlauncher/internal/core"
	"github.com/dcrodman/mirlauncher/internal/core/client"
	"github.com/dcrodman/mirlauncher/internal/core/data"
	"github.com/dcrodman/mirlauncher/internal/patcher"
	"github.com/dcrodman/mirlauncher/internal/serverlist"
	"github.com/dcrodman/mirlauncher/internal/trailer"
)

var ErrUnknownServer = errors.New("launcher: unknown server")

// Launcher is the main entrypoint for the launcher's flows. Create it with
// New, call Init once, and Close it when done.
type Launcher struct {
	Config  *core.Config
	Logger  *logrus.Logger
	Session *client.Session
	Patcher *patcher.Patcher
	// Used for fetching the remote server list. Redirects are not followed.
	HTTPClient *http.Client
	// Account history. Nil when the store could not be opened.
	DB *gorm.DB

	container *trailer.Container
	title     string
	list      *serverlist.List
	throttle  *cache.Cache

	mu       sync.Mutex
	selected *serverlist.Entry
	pending  *pendingRequest
}

func New(cfg *core.Config, logger *logrus.Logger) *Launcher {
	session := client.NewSession(logger)
	session.PacketLogging = cfg.Debugging.PacketLoggingEnabled
	session.DialTimeout = cfg.Network.ConnectTimeout

	return &Launcher{
		Config:  cfg,
		Logger:  logger,
		Session: session,
		Patcher: patcher.New(logger),
		HTTPClient: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		title:    cfg.DefaultTitle,
		list:     serverlist.New(),
		throttle: cache.New(recoverCooldown, time.Minute),
	}
}

// Init reads the configuration embedded in the executable at exePath, brings
// the server list file up to date and selects the last server in it. The
// account store is opened at the same time as the server list downloads.
func (l *Launcher) Init(ctx context.Context, exePath string) error {
	listPath := l.Config.QualifiedPath(l.Config.ServerListFile)

	container, err := trailer.Read(exePath)
	switch {
	case errors.Is(err, trailer.ErrNoContainer):
		l.Logger.Debugf("no embedded configuration in %s", exePath)
	case err != nil:
		return fmt.Errorf("error reading embedded configuration: %w", err)
	default:
		l.container = container
		l.title = container.Title()
		if err := l.writeEmbeddedServers(listPath); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if url := l.downloadURL(); url != "" {
		g.Go(func() error {
			l.downloadServerList(gctx, url, listPath)
			return nil
		})
	}
	if l.DB == nil {
		g.Go(func() error {
			l.openStore()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	list, err := serverlist.Load(listPath)
	if err != nil {
		return err
	}
	l.list = list

	if captions := list.Captions(); len(captions) > 0 {
		entry := list.Lookup(captions[len(captions)-1], l.defaults())
		l.mu.Lock()
		l.selected = &entry
		l.mu.Unlock()
	}
	return nil
}

func (l *Launcher) writeEmbeddedServers(listPath string) error {
	if len(l.container.Servers) == 0 {
		return nil
	}
	var entries []serverlist.Entry
	for _, s := range l.container.ServerEntries() {
		entries = append(entries, serverlist.Entry(s))
	}
	list, err := serverlist.FromEntries(entries)
	if err != nil {
		return err
	}
	if err := list.Save(listPath); err != nil {
		return fmt.Errorf("error writing embedded servers: %w", err)
	}
	return nil
}

func (l *Launcher) downloadURL() string {
	if l.container == nil {
		return ""
	}
	return l.container.DownloadURL()
}

// downloadServerList replaces the server list with the remote copy. The
// local list is used as-is if that fails.
func (l *Launcher) downloadServerList(ctx context.Context, url, dest string) {
	if timeout := l.Config.Network.DownloadTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := serverlist.Download(ctx, l.HTTPClient, url, dest); err != nil {
		l.Logger.Warnf("error downloading server list: %v", err)
		return
	}
	l.Logger.Infof("downloaded server list from %s", url)
}

// openStore opens the account history. The launcher works without it.
func (l *Launcher) openStore() {
	db, err := data.Open(l.Config.Database.Engine, l.Config.DatabaseSource(), l.Config.Debugging.DatabaseLoggingEnabled)
	if err != nil {
		l.Logger.Warnf("account history unavailable: %v", err)
		return
	}
	l.DB = db
}

func (l *Launcher) defaults() serverlist.Defaults {
	return serverlist.Defaults{
		Address: l.Config.Defaults.ServerAddress,
		Port:    l.Config.Defaults.ServerPort,
		WebURL:  l.Config.Defaults.WebURL,
	}
}

// Title is the embedded title, or the configured default.
func (l *Launcher) Title() string {
	return l.title
}

// Container returns the embedded configuration, or nil if there is none.
func (l *Launcher) Container() *trailer.Container {
	return l.container
}

// Servers returns every server in the list in file order.
func (l *Launcher) Servers() []serverlist.Entry {
	return l.list.Entries(l.defaults())
}

// Selected returns the current server, if any.
func (l *Launcher) Selected() (serverlist.Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selected == nil {
		return serverlist.Entry{}, false
	}
	return *l.selected, true
}

// Select makes the server with the given caption current and connects to it.
func (l *Launcher) Select(ctx context.Context, caption string) error {
	if !l.list.Has(caption) {
		return fmt.Errorf("%w: %s", ErrUnknownServer, caption)
	}
	entry := l.list.Lookup(caption, l.defaults())

	l.mu.Lock()
	l.selected = &entry
	l.pending = nil
	l.mu.Unlock()

	return l.Connect(ctx)
}

// Connect connects the session to the current server.
func (l *Launcher) Connect(ctx context.Context) error {
	entry, ok := l.Selected()
	if !ok {
		return serverlist.ErrNoServerSelected
	}
	address := net.JoinHostPort(entry.Address, entry.Port)
	l.Logger.WithField("server", entry.Caption).Infof("connecting to %s", address)
	return l.Session.Connect(ctx, address)
}

// Close disconnects from the login server and releases the account store.
func (l *Launcher) Close() {
	l.Session.Close()
	if l.DB != nil {
		if err := data.Close(l.DB); err != nil {
			l.Logger.Warnf("error closing account history: %v", err)
		}
	}
}
