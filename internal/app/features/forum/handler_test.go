package forum_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sistercircle/sistercircle/internal/app/features/forum"
	forumstore "github.com/sistercircle/sistercircle/internal/app/store/forumposts"
	"github.com/sistercircle/sistercircle/internal/domain/models"
	"github.com/sistercircle/sistercircle/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*forum.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return forum.NewHandler(forumstore.New(db), zap.NewNop()), db
}

func serve(h *forum.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	forum.Routes(h).ServeHTTP(rec, req)
	return rec
}

func TestHandleCreatePost_SanitizesBody(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := testutil.Context(t)

	author := testutil.CreateMentee(t, db, "Ada Author", "a@x.com")

	form := url.Values{"body": {`Hello <script>alert(1)</script><b>world</b>`}}
	req := testutil.NewAuthenticatedRequest("POST", "/", strings.NewReader(form.Encode()), author)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := serve(h, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/forum" {
		t.Errorf("redirect = %q, want /forum", loc)
	}

	posts, err := forumstore.New(db).List(ctx)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("posts = %d, want 1", len(posts))
	}
	p := posts[0]
	if strings.Contains(p.Body, "<script") {
		t.Errorf("body kept script: %q", p.Body)
	}
	if !strings.Contains(p.Body, "<b>world</b>") {
		t.Errorf("body lost benign formatting: %q", p.Body)
	}
	if p.AuthorName != "Ada Author" || p.AuthorID != author.ID {
		t.Errorf("author = %q / %s", p.AuthorName, p.AuthorID.Hex())
	}
}

func TestHandleCreatePost_EmptyBodyIgnored(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := testutil.Context(t)

	author := testutil.CreateMentee(t, db, "Ada Author", "a@x.com")

	// Markup-only input sanitizes down to nothing.
	form := url.Values{"body": {"<script>boo()</script>"}}
	req := testutil.NewAuthenticatedRequest("POST", "/", strings.NewReader(form.Encode()), author)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := serve(h, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	posts, err := forumstore.New(db).List(ctx)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("posts = %d, want 0", len(posts))
	}
}

func TestHandleReport_DoubleReportCountsOnce(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := testutil.Context(t)

	author := testutil.CreateMentee(t, db, "Ada Author", "a@x.com")
	reporter := testutil.CreateMentee(t, db, "Rae Reporter", "r@x.com")

	post, err := forumstore.New(db).Create(ctx, models.ForumPost{
		AuthorID:   author.ID,
		AuthorName: author.FullName,
		Body:       "questionable advice",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	for i := 0; i < 2; i++ {
		req := testutil.NewAuthenticatedRequest("POST", "/"+post.ID.Hex()+"/report", nil, reporter)
		rec := serve(h, req)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("report %d: status = %d, want 303", i+1, rec.Code)
		}
	}

	got, err := forumstore.New(db).GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if len(got.Reports) != 1 {
		t.Errorf("reporters = %d, want 1 (set union)", len(got.Reports))
	}
	if len(got.Reports) == 1 && got.Reports[0] != reporter.ID {
		t.Errorf("reporter = %s, want %s", got.Reports[0].Hex(), reporter.ID.Hex())
	}
}

func TestHandleReport_UnknownPost(t *testing.T) {
	h, db := newTestHandler(t)

	reporter := testutil.CreateMentee(t, db, "Rae Reporter", "r@x.com")

	req := testutil.NewAuthenticatedRequest("POST", "/not-an-id/report", nil, reporter)
	rec := serve(h, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
