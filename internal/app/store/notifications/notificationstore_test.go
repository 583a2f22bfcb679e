package notificationstore_test

import (
	"testing"

	notificationstore "github.com/dalemusser/classmentor/internal/app/store/notifications"
	"github.com/dalemusser/classmentor/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_InsertListMarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	first, err := store.Insert(ctx, userID, "You have been paired with bird Jane")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, userID, "Your pairing was updated"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, otherID, "Unrelated"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	list, err := store.ListByUser(ctx, userID, 0)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(list))
	}

	n, err := store.CountUnread(ctx, userID)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if n != 2 {
		t.Errorf("CountUnread: got %d, want 2", n)
	}

	// Another user cannot mark this user's notification.
	if err := store.MarkRead(ctx, otherID, first.ID); err != nil {
		t.Fatalf("MarkRead (other) failed: %v", err)
	}
	if n, _ := store.CountUnread(ctx, userID); n != 2 {
		t.Errorf("cross-user MarkRead changed unread count: %d", n)
	}

	if err := store.MarkRead(ctx, userID, first.ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if n, _ := store.CountUnread(ctx, userID); n != 1 {
		t.Errorf("CountUnread after MarkRead: got %d, want 1", n)
	}

	if err := store.MarkAllRead(ctx, userID); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if n, _ := store.CountUnread(ctx, userID); n != 0 {
		t.Errorf("CountUnread after MarkAllRead: got %d, want 0", n)
	}
}
