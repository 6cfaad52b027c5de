// Package cli is the field operator's interactive front end: it captures
// records, shows the queue state and triggers sync and verification rounds.
// All durable state lives below, in the queue manager and its store.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rbagirov/medsync/internal/client/config"
	"github.com/rbagirov/medsync/internal/client/queue"
	"github.com/rbagirov/medsync/internal/client/store"
	"github.com/rbagirov/medsync/internal/client/transport"
	"github.com/rbagirov/medsync/internal/cryptox"
	"github.com/rbagirov/medsync/internal/logging"
	"github.com/rbagirov/medsync/internal/model"
)

// recordQueue is what the command loop needs from the queue manager.
type recordQueue interface {
	CreateRecord(ctx context.Context, subjectID, logicalContent string) (*model.Record, error)
	Records(ctx context.Context) ([]*model.Record, error)
	PendingCount(ctx context.Context) (int, error)
	SyncNow(ctx context.Context) queue.SyncOutcome
	VerifySynced(ctx context.Context) (int, error)
}

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config    *config.Config
	queue     recordQueue
	transport *transport.Client
	db        *sql.DB
	Mode      Mode
	reader    *bufio.Reader
}

// NewApp opens the local store, prompts for the encryption passphrase and
// wires the queue manager.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	db, err := store.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	passphrase, err := GetPassphrase(os.Stdout)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error reading passphrase: %w", err)
	}
	key := cryptox.DeriveKey(passphrase, []byte(c.KeySalt))

	tr := transport.New(c.GatewayURL, c.SyncTimeout)

	m := queue.NewManager(
		store.NewSQLiteRepository(db),
		tr,
		cryptox.NewAESGCMEncryptor(key),
		cryptox.NewHMACSigner(key),
		c.AuthorID,
		c.OriginID,
		logging.NewJSON(),
	)

	return &App{
		config:    c,
		queue:     m,
		transport: tr,
		db:        db,
		Mode:      ModeOffline,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

// StartOnlineStatusWatcher periodically probes gateway reachability and
// flips the prompt's online indicator. The sync protocol never depends on
// this; syncing while "offline" simply fails and keeps records local.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.transport.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	a.Root(ctx)
}
