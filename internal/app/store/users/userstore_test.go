package userstore_test

import (
	"errors"
	"testing"

	"github.com/sistercircle/sistercircle/internal/app/store/users"
	"github.com/sistercircle/sistercircle/internal/app/system/indexes"
	"github.com/sistercircle/sistercircle/internal/domain/models"
	"github.com/sistercircle/sistercircle/internal/testutil"
)

func TestCreateNormalizesAndRejectsDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.Context(t)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	store := userstore.New(db)

	u, err := store.Create(ctx, models.User{
		FullName:   "  Ada   Okafor ",
		Email:      "Ada@Example.COM",
		AuthMethod: models.AuthPassword,
		Role:       models.RoleMentor,
		Interests:  []string{" product ", "product", "negotiation"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.FullName != "Ada Okafor" {
		t.Errorf("full name = %q", u.FullName)
	}
	if u.Email != "ada@example.com" {
		t.Errorf("email = %q", u.Email)
	}
	if len(u.Interests) != 2 {
		t.Errorf("interests = %v, want deduped pair", u.Interests)
	}
	if u.Status != models.StatusActive {
		t.Errorf("status = %q, want active default", u.Status)
	}

	// Same email, different case: unique index must reject it.
	_, err = store.Create(ctx, models.User{
		FullName:   "Ada Clone",
		Email:      "ADA@example.com",
		AuthMethod: models.AuthPassword,
		Role:       models.RoleMentee,
	})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestListMentorsFiltersRoleAndStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.Context(t)
	store := userstore.New(db)

	mentor := testutil.CreateMentor(t, db, "Zora Bell", "zora@example.com")
	both := testutil.CreateUser(t, db, models.User{
		FullName: "Ana Cruz", Email: "ana@example.com", AuthMethod: models.AuthPassword, Role: models.RoleBoth,
	})
	testutil.CreateMentee(t, db, "Maya Reyes", "maya@example.com")

	suspended := testutil.CreateMentor(t, db, "Gone Away", "gone@example.com")
	if err := store.SetStatus(ctx, suspended.ID, models.StatusSuspended); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	mentors, err := store.ListMentors(ctx)
	if err != nil {
		t.Fatalf("list mentors: %v", err)
	}
	if len(mentors) != 2 {
		t.Fatalf("got %d mentors, want 2", len(mentors))
	}
	// Sorted by folded name: Ana before Zora.
	if mentors[0].ID != both.ID || mentors[1].ID != mentor.ID {
		t.Errorf("order = [%s, %s]", mentors[0].FullName, mentors[1].FullName)
	}
}

func TestSearchMentors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.Context(t)
	store := userstore.New(db)

	testutil.CreateMentor(t, db, "Ada Okafor", "ada@example.com", "product")
	testutil.CreateMentor(t, db, "Zora Bell", "zora@example.com", "engineering")

	byName, err := store.SearchMentors(ctx, "ada", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byName) != 1 || byName[0].FullName != "Ada Okafor" {
		t.Errorf("name search = %+v", byName)
	}

	byInterest, err := store.SearchMentors(ctx, "", "engineering")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byInterest) != 1 || byInterest[0].FullName != "Zora Bell" {
		t.Errorf("interest search = %+v", byInterest)
	}
}

func TestPromoteAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.Context(t)
	store := userstore.New(db)

	u := testutil.CreateMentee(t, db, "Root User", "root@example.com")
	if err := store.PromoteAdmin(ctx, "ROOT@example.com"); err != nil {
		t.Fatalf("promote: %v", err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", got.Role)
	}
}
