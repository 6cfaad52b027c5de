package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sethvargo/go-retry"
)

func (a *App) add(ctx context.Context, patientID string, text string) {
	rec, err := a.queue.CreateRecord(ctx, patientID, text)
	if err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Printf("Record %s saved locally, will sync later\n", rec.ID)
}

func (a *App) list(ctx context.Context) {
	records, err := a.queue.Records(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}

	for _, r := range records {
		created := time.UnixMilli(r.CreatedAt).Format("2006-01-02 15:04:05")
		fmt.Printf("%s  patient=%s  %s  %s\n", r.ID, r.SubjectID, created, r.Status)
	}
	fmt.Printf("%d record(s)\n", len(records))
}

func (a *App) pending(ctx context.Context) {
	n, err := a.queue.PendingCount(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Printf("%d record(s) pending sync\n", n)
}

// sync pushes the pending queue to the gateway, retrying transient failures
// with fibonacci backoff. A round that exhausts its retries leaves every
// record untouched on disk.
func (a *App) sync(ctx context.Context) {

	var attempted, accepted, rejected int

	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(a.config.SyncTimeout/10))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		out := a.queue.SyncNow(ctx)
		if out.Err != nil {
			return retry.RetryableError(out.Err)
		}
		attempted, accepted, rejected = out.Attempted, out.Accepted, out.Rejected
		return nil
	})

	if err != nil {
		fmt.Println("Sync failed, records are safe locally:", err.Error())
		return
	}

	if attempted == 0 {
		fmt.Println("Nothing to sync")
		return
	}
	fmt.Printf("Sync complete: %d accepted, %d rejected of %d\n", accepted, rejected, attempted)
}

func (a *App) verify(ctx context.Context) {
	n, err := a.queue.VerifySynced(ctx)
	if err != nil {
		log.Println(err.Error())
	}
	fmt.Printf("%d record(s) verified against the ledger\n", n)
}
