package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rbagirov/medsync/internal/client/config"
	"github.com/rbagirov/medsync/internal/client/queue"
	"github.com/rbagirov/medsync/internal/client/transport"
	"github.com/rbagirov/medsync/internal/common"
	"github.com/rbagirov/medsync/internal/model"
)

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

type fakeQueue struct {
	createSubject string
	createText    string
	createOut     *model.Record
	createErr     error

	records []*model.Record

	pending int

	syncCalls int
	syncOuts  []queue.SyncOutcome

	verified  int
	verifyErr error
}

func (f *fakeQueue) CreateRecord(ctx context.Context, subjectID, logicalContent string) (*model.Record, error) {
	f.createSubject = subjectID
	f.createText = logicalContent
	return f.createOut, f.createErr
}

func (f *fakeQueue) Records(ctx context.Context) ([]*model.Record, error) {
	return f.records, nil
}

func (f *fakeQueue) PendingCount(ctx context.Context) (int, error) {
	return f.pending, nil
}

func (f *fakeQueue) SyncNow(ctx context.Context) queue.SyncOutcome {
	out := f.syncOuts[0]
	if len(f.syncOuts) > 1 {
		f.syncOuts = f.syncOuts[1:]
	}
	f.syncCalls++
	return out
}

func (f *fakeQueue) VerifySynced(ctx context.Context) (int, error) {
	return f.verified, f.verifyErr
}

func newTestApp(q recordQueue, r *bufio.Reader) *App {
	return &App{
		config: &config.Config{
			SyncTimeout:         10 * time.Millisecond,
			OnlineCheckInterval: time.Hour,
		},
		queue:     q,
		transport: transport.New("http://127.0.0.1:0", time.Second),
		Mode:      ModeOffline,
		reader:    r,
	}
}

func TestAddPassesArgsThrough(t *testing.T) {
	fq := &fakeQueue{createOut: &model.Record{ID: "rec-1"}}
	app := newTestApp(fq, nil)

	app.add(context.Background(), "patient-9", "bp 120/80 stable")

	require.Equal(t, "patient-9", fq.createSubject)
	require.Equal(t, "bp 120/80 stable", fq.createText)
}

func TestSyncSingleCallOnSuccess(t *testing.T) {
	fq := &fakeQueue{syncOuts: []queue.SyncOutcome{
		{Success: true, Attempted: 2, Accepted: 2},
	}}
	app := newTestApp(fq, nil)

	app.sync(context.Background())

	require.Equal(t, 1, fq.syncCalls)
}

func TestSyncRetriesTransientFailure(t *testing.T) {
	fq := &fakeQueue{syncOuts: []queue.SyncOutcome{
		{Err: common.ErrTransport},
		{Err: common.ErrTransport},
		{Success: true, Attempted: 1, Accepted: 1},
	}}
	app := newTestApp(fq, nil)

	app.sync(context.Background())

	require.Equal(t, 3, fq.syncCalls)
}

func TestSyncGivesUpAfterMaxRetries(t *testing.T) {
	fq := &fakeQueue{syncOuts: []queue.SyncOutcome{
		{Err: common.ErrTransport},
	}}
	app := newTestApp(fq, nil)

	app.sync(context.Background())

	// initial attempt plus three retries
	require.Equal(t, 4, fq.syncCalls)
}

func TestRootDispatchesUntilExit(t *testing.T) {
	fq := &fakeQueue{pending: 3, syncOuts: []queue.SyncOutcome{{Success: true}}}
	app := newTestApp(fq, readerFromLines("pending", "sync", "nonsense", "exit"))

	app.Root(context.Background())

	require.Equal(t, 1, fq.syncCalls)
}
