package featured_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hirelane/hirelane-api/internal/domain/featured"
	"github.com/hirelane/hirelane-api/internal/domain/job"
)

/* =========================
   Test 1: Sweep Cascade
   ========================= */

func TestSweepExpiredCascade(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(db)

	service := newTestService(db)
	userID := uuid.New()

	pkg, err := service.CreatePackage(context.Background(), userID, uuid.NullUUID{}, 5, 30)
	requireNoError(t, err)

	jobA := createTestJob(t, db)
	jobB := createTestJob(t, db)
	_, err = service.UseCredit(context.Background(), userID, jobA.ID)
	requireNoError(t, err)
	_, err = service.UseCredit(context.Background(), userID, jobB.ID)
	requireNoError(t, err)

	backdateExpiry(t, db, pkg.ID, -time.Hour)

	count, err := service.SweepExpired(context.Background())
	requireNoError(t, err)
	if count != 1 {
		t.Fatalf("expected 1 package expired, got %d", count)
	}

	expired, err := service.GetPackage(context.Background(), pkg.ID)
	requireNoError(t, err)
	if expired.Status != featured.StatusExpired {
		t.Errorf("expected expired status, got %s", expired.Status)
	}
	// Credits restored numerically but never spendable again
	if expired.RemainingCredits != 5 || expired.UsedCredits != 0 {
		t.Errorf("expected counters restored, got used=%d remaining=%d",
			expired.UsedCredits, expired.RemainingCredits)
	}
	if len(expired.GrantedJobIDs) != 0 {
		t.Errorf("expected empty ledger, got %v", expired.GrantedJobIDs)
	}

	jobRepo := job.NewRepository(db)
	for _, id := range []uuid.UUID{jobA.ID, jobB.ID} {
		state, err := jobRepo.GetFeatureState(context.Background(), id)
		requireNoError(t, err)
		if state.IsFeatured || state.FeaturedPackageID.Valid {
			t.Errorf("job %s: expected unfeatured after sweep, got %+v", id, state)
		}
	}

	// Expired packages never come back as candidates
	testJob := createTestJob(t, db)
	_, err = service.UseCredit(context.Background(), userID, testJob.ID)
	if err == nil {
		t.Fatal("expected no credits after sweep")
	}
}

/* =========================
   Test 2: Sweep Idempotency
   ========================= */

func TestSweepExpiredIdempotent(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(db)

	service := newTestService(db)
	userID := uuid.New()

	pkg, err := service.CreatePackage(context.Background(), userID, uuid.NullUUID{}, 2, 30)
	requireNoError(t, err)
	backdateExpiry(t, db, pkg.ID, -time.Minute)

	count, err := service.SweepExpired(context.Background())
	requireNoError(t, err)
	if count != 1 {
		t.Fatalf("first sweep: expected 1, got %d", count)
	}

	count, err = service.SweepExpired(context.Background())
	requireNoError(t, err)
	if count != 0 {
		t.Fatalf("second sweep: expected 0, got %d", count)
	}
}

/* =========================
   Test 3: Sweep Leaves Healthy Packages
   ========================= */

func TestSweepIgnoresHealthyPackages(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(db)

	service := newTestService(db)
	userID := uuid.New()

	healthy, err := service.CreatePackage(context.Background(), userID, uuid.NullUUID{}, 2, 30)
	requireNoError(t, err)
	forever, err := service.CreatePackage(context.Background(), userID, uuid.NullUUID{}, 2, 0)
	requireNoError(t, err)

	count, err := service.SweepExpired(context.Background())
	requireNoError(t, err)
	if count != 0 {
		t.Fatalf("expected 0 expired, got %d", count)
	}

	for _, id := range []uuid.UUID{healthy.ID, forever.ID} {
		p, err := service.GetPackage(context.Background(), id)
		requireNoError(t, err)
		if p.Status != featured.StatusActive {
			t.Errorf("package %s: expected active, got %s", id, p.Status)
		}
	}
}

/* =========================
   Test 4: Worker Lifecycle
   ========================= */

func TestWorkerStartStop(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(db)

	service := newTestService(db)
	userID := uuid.New()

	pkg, err := service.CreatePackage(context.Background(), userID, uuid.NullUUID{}, 2, 30)
	requireNoError(t, err)
	backdateExpiry(t, db, pkg.ID, -time.Minute)

	worker := featured.NewWorker(service, nil, time.Hour)
	worker.Start()
	defer worker.Stop()

	// The worker sweeps once on startup
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		p, err := service.GetPackage(context.Background(), pkg.ID)
		requireNoError(t, err)
		if p.Status == featured.StatusExpired {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal("worker did not expire the package in time")
}
