package forumstore_test

import (
	"testing"

	"github.com/sistercircle/sistercircle/internal/app/store/forumposts"
	"github.com/sistercircle/sistercircle/internal/domain/models"
	"github.com/sistercircle/sistercircle/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func createPost(t *testing.T, store *forumstore.Store, body string) models.ForumPost {
	t.Helper()
	p, err := store.Create(testutil.Context(t), models.ForumPost{
		AuthorID:   primitive.NewObjectID(),
		AuthorName: "Ada Okafor",
		Body:       body,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// Reporting is a set-union: the same member reporting twice counts once,
// different members accumulate.
func TestReportIsSetUnion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.Context(t)
	store := forumstore.New(db)

	post := createPost(t, store, "spicy take")
	alice := primitive.NewObjectID()
	bella := primitive.NewObjectID()

	for i := 0; i < 3; i++ {
		if err := store.Report(ctx, post.ID, alice); err != nil {
			t.Fatalf("report: %v", err)
		}
	}
	if err := store.Report(ctx, post.ID, bella); err != nil {
		t.Fatalf("report: %v", err)
	}

	got, err := store.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Reports) != 2 {
		t.Errorf("reports = %v, want exactly 2 distinct reporters", got.Reports)
	}
	if !got.Reported() {
		t.Error("Reported() = false")
	}
}

// Resolve clears the report set so a post can be reported again afterward.
func TestResolveClearsReports(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.Context(t)
	store := forumstore.New(db)

	post := createPost(t, store, "borderline")
	if err := store.Report(ctx, post.ID, primitive.NewObjectID()); err != nil {
		t.Fatalf("report: %v", err)
	}

	if err := store.Resolve(ctx, post.ID); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	got, err := store.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Reports) != 0 {
		t.Errorf("reports = %v, want empty", got.Reports)
	}

	// Re-reporting after resolve puts it back in the queue.
	if err := store.Report(ctx, post.ID, primitive.NewObjectID()); err != nil {
		t.Fatalf("re-report: %v", err)
	}
	queue, err := store.ListReported(ctx)
	if err != nil {
		t.Fatalf("list reported: %v", err)
	}
	if len(queue) != 1 || queue[0].ID != post.ID {
		t.Errorf("queue = %+v", queue)
	}
}

func TestModerationQueueOnlyHoldsReportedPosts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.Context(t)
	store := forumstore.New(db)

	clean := createPost(t, store, "all good here")
	flagged := createPost(t, store, "not so good")
	if err := store.Report(ctx, flagged.ID, primitive.NewObjectID()); err != nil {
		t.Fatalf("report: %v", err)
	}

	queue, err := store.ListReported(ctx)
	if err != nil {
		t.Fatalf("list reported: %v", err)
	}
	if len(queue) != 1 || queue[0].ID != flagged.ID {
		t.Errorf("queue = %+v", queue)
	}

	n, err := store.CountReported(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("total posts = %d, want 2", len(all))
	}
	_ = clean
}
